package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorPurple = lipgloss.Color("#bd93f9")
	colorDim    = lipgloss.Color("#6272a4")
	colorFg     = lipgloss.Color("#f8f8f2")
	colorBorder = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	titleInfoStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	titleErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Padding(1, 0)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	// Preview styles
	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorBorder)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	addedSignStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	deletedSignStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	markerStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	plainLineStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)
