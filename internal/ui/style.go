package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Cyan   = lipgloss.Color("#00E5FF") // Primary highlight
	Green  = lipgloss.Color("#2AFFAA") // Gains
	Red    = lipgloss.Color("#FF5555") // Losses / errors
	Yellow = lipgloss.Color("#FFB500") // Warnings
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(Base01).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Base2).
			Background(lipgloss.Color("#262831")).
			Padding(0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(Base2).
			Padding(0, 1)

	gainStyle = lipgloss.NewStyle().Foreground(Green)
	lossStyle = lipgloss.NewStyle().Foreground(Red)
	warnStyle = lipgloss.NewStyle().Foreground(Yellow)

	helpStyle = lipgloss.NewStyle().
			Foreground(Base01).
			Padding(1, 1, 0, 1)
)
