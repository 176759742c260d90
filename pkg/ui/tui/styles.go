package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent   = lipgloss.Color("#00FFFF")
	good     = lipgloss.Color("#39FF14")
	bad      = lipgloss.Color("#FF5555")
	warn     = lipgloss.Color("#FFFF00")
	dimWhite = lipgloss.Color("#B0B0B0")

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1)

	phaseStyle = lipgloss.NewStyle().
			Foreground(warn).
			Padding(0, 1)

	logPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	logLineStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	summaryOKStyle = lipgloss.NewStyle().
			Foreground(good).
			Bold(true).
			Padding(0, 1)

	summaryErrStyle = lipgloss.NewStyle().
			Foreground(bad).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Padding(0, 1)
)
