package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "#E4572E"
	colorOK     = "#2BA84A"
	colorWarn   = "#F3A712"
	colorMuted  = "#7A7A7A"
	colorText   = "#F5F5F5"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			MarginTop(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorOK))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorWarn))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	// BoxStyle frames the import result and the feed status.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(0, 1)

	CursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(colorText))

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorAccent)).
			Padding(0, 1)
)
