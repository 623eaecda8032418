package output

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorWarning = lipgloss.Color("#FFA500")
	colorDanger  = lipgloss.Color("#FF5F87")
	colorMuted   = lipgloss.Color("#6C6C6C")
)

type consoleStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
	border  lipgloss.Style
}

func newConsoleStyles(plain bool) consoleStyles {
	if plain {
		s := lipgloss.NewStyle()
		return consoleStyles{s, s, s, s, s, s, s}
	}
	return consoleStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		heading: lipgloss.NewStyle().Bold(true).Underline(true),
		label:   lipgloss.NewStyle().Foreground(colorMuted),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
		danger:  lipgloss.NewStyle().Bold(true).Foreground(colorDanger),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		border:  lipgloss.NewStyle().Foreground(colorPrimary),
	}
}
