package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/searoute/searoute/internal/models"
)

// renderRoutePane renders the route summary pane
func (m Model) renderRoutePane(width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("Route"))
	content.WriteString("\n\n")

	if m.route == nil {
		content.WriteString(mutedStyle.Render("No route planned"))
		return paneStyle.Width(width).Render(content.String())
	}

	strat := m.route.Strategy
	content.WriteString(labelStyle.Render("Strategy: "))
	content.WriteString(styleForStrategy(strat.Strategy).Render(string(strat.Strategy)))
	content.WriteString(valueStyle.Render(fmt.Sprintf("  (deviation %s)", strat.Deviation)))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(strat.Reason))
	content.WriteString("\n\n")

	met := m.route.Metrics
	rows := []struct {
		label string
		value string
	}{
		{"Distance", fmt.Sprintf("%.0f km", met.DistanceKm)},
		{"Duration", fmt.Sprintf("%.1f hrs at %.1f kt", met.DurationHrs, met.SpeedKnots)},
		{"Fuel", fmt.Sprintf("%.1f t ($%.0f)", met.FuelTons, met.CostCurrency)},
		{"Safety score", fmt.Sprintf("%.0f / 100", met.SafetyScore)},
		{"Fuel efficiency", fmt.Sprintf("%.0f / 100", met.FuelEfficiency)},
		{"Min land clearance", fmt.Sprintf("%.1f km", met.MinClearanceKm)},
	}
	for _, r := range rows {
		content.WriteString(labelStyle.Render(r.label + ": "))
		content.WriteString(valueStyle.Render(r.value))
		content.WriteString("\n")
	}

	style := paneStyle
	if m.activePane == PaneRoute {
		style = activePaneStyle
	}
	return style.Width(width).Render(content.String())
}

func styleForStrategy(s models.Strategy) lipgloss.Style {
	switch s {
	case models.StrategySafe:
		return strategySafeStyle
	case models.StrategyFuel:
		return strategyFuelStyle
	default:
		return strategyOptimalStyle
	}
}
