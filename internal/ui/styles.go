package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary = lipgloss.Color("#00BFFF") // Deep sky blue
	colorDanger  = lipgloss.Color("#FF6B6B") // Red for critical hazards
	colorWarning = lipgloss.Color("#FFD93D") // Yellow for warnings
	colorSuccess = lipgloss.Color("#6BCF7F") // Green
	colorMuted   = lipgloss.Color("#6C757D") // Gray
	colorBorder  = lipgloss.Color("#4A90E2") // Border blue

	// Title styles (no padding - paneStyle already has padding)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Pane styles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			MarginRight(1)

	activePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2).
			MarginRight(1)

	// Content styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Hazard severity styles
	severityCriticalStyle = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	severityHighStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8C42")).
				Bold(true)

	severityModerateStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	// Strategy styles
	strategySafeStyle = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	strategyFuelStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	strategyOptimalStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	// Utility styles
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
