// Package ui renders a planned route and its hazard report in the
// terminal.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/searoute/searoute/internal/hazard"
	"github.com/searoute/searoute/internal/models"
)

// ActivePane represents which pane is currently focused
type ActivePane int

const (
	PaneRoute ActivePane = iota
	PaneHazards
)

// Model represents the route viewer's state
type Model struct {
	route      *models.Route
	report     hazard.Report
	activePane ActivePane
	width      int
	height     int

	waypointList list.Model
}

// waypointItem adapts a route waypoint to the bubbles list.
type waypointItem struct {
	index int
	wp    models.Waypoint
}

func (i waypointItem) Title() string {
	return fmt.Sprintf("%d. (%.2f, %.2f)", i.index+1, i.wp.Lat, i.wp.Lon)
}

func (i waypointItem) Description() string {
	if i.wp.Weather == nil {
		return "no weather sample"
	}
	w := i.wp.Weather
	return fmt.Sprintf("wind %.0f kt, waves %.1f m", w.WindSpeed, w.WaveHeight)
}

func (i waypointItem) FilterValue() string { return i.Title() }

// NewModel creates the viewer for a planned route.
func NewModel(route *models.Route, report hazard.Report) Model {
	items := make([]list.Item, 0, len(route.Waypoints))
	for idx, wp := range route.Waypoints {
		items = append(items, waypointItem{index: idx, wp: wp})
	}

	wl := list.New(items, list.NewDefaultDelegate(), 40, 20)
	wl.Title = "Waypoints"
	wl.SetShowStatusBar(false)
	wl.SetFilteringEnabled(false)

	return Model{
		route:        route,
		report:       report,
		activePane:   PaneRoute,
		waypointList: wl,
	}
}

// Init initializes the viewer
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles input
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.waypointList.SetSize(msg.Width/3, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.activePane == PaneRoute {
				m.activePane = PaneHazards
			} else {
				m.activePane = PaneRoute
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.waypointList, cmd = m.waypointList.Update(msg)
	return m, cmd
}

// View renders the full screen
func (m Model) View() string {
	paneWidth := m.width/2 - 2
	if paneWidth < 40 {
		paneWidth = 40
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderRoutePane(paneWidth),
		m.waypointList.View(),
	)
	right := m.renderHazardPane(paneWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	help := helpStyle.Render("tab: switch pane • q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}
