package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/searoute/searoute/internal/models"
)

// renderHazardPane renders active hazard intersections for the route
func (m Model) renderHazardPane(width int) string {
	contentWidth := width - 6
	if contentWidth < 20 {
		contentWidth = 20
	}
	wrappedStyle := lipgloss.NewStyle().Width(contentWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render("Hazards"))
	content.WriteString("\n\n")

	if len(m.report.Intersections) == 0 {
		content.WriteString(mutedStyle.Render("No hazards along route"))
	} else {
		if m.report.RequiresReroute {
			content.WriteString(severityCriticalStyle.Render("REROUTE REQUIRED"))
			content.WriteString("\n\n")
		}
		for _, hit := range m.report.Intersections {
			content.WriteString(styleForSeverity(hit.Severity).Render(string(hit.Severity)))
			content.WriteString(valueStyle.Render(fmt.Sprintf("  %s", hit.HazardName)))
			content.WriteString("\n")
			content.WriteString(wrappedStyle.Render(mutedStyle.Render(hit.Message)))
			content.WriteString("\n")
			content.WriteString(mutedStyle.Render(fmt.Sprintf("  at (%.2f, %.2f)", hit.Lat, hit.Lon)))
			content.WriteString("\n\n")
		}
	}

	style := paneStyle
	if m.activePane == PaneHazards {
		style = activePaneStyle
	}
	return style.Width(width).Render(content.String())
}

func styleForSeverity(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityCritical:
		return severityCriticalStyle
	case models.SeverityHigh:
		return severityHighStyle
	default:
		return severityModerateStyle
	}
}
