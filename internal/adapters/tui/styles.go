package tui

import "github.com/charmbracelet/lipgloss"

// Monochrome grayscale styles; the warning is the only colored element.
type styles struct {
	title      lipgloss.Style
	subtitle   lipgloss.Style
	countdown  lipgloss.Style
	cursor     lipgloss.Style
	selected   lipgloss.Style
	unselected lipgloss.Style
	warning    lipgloss.Style
	button     lipgloss.Style
	help       lipgloss.Style
	container  lipgloss.Style
	barFull    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	white := lipgloss.Color("#FFFFFF")
	black := lipgloss.Color("#000000")
	gray300 := lipgloss.Color("#E0E0E0")
	gray600 := lipgloss.Color("#757575")
	gray700 := lipgloss.Color("#616161")
	gray800 := lipgloss.Color("#424242")
	amber := lipgloss.Color("#FFB300")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(white),
		subtitle: lipgloss.NewStyle().
			Foreground(gray300),
		countdown: lipgloss.NewStyle().
			Bold(true).
			Foreground(white).
			MarginTop(1).
			MarginBottom(1),
		cursor: lipgloss.NewStyle().
			Foreground(black).
			Background(white).
			Bold(true),
		selected: lipgloss.NewStyle().
			Foreground(white).
			Bold(true),
		unselected: lipgloss.NewStyle().
			Foreground(gray600),
		warning: lipgloss.NewStyle().
			Foreground(amber).
			Bold(true),
		button: lipgloss.NewStyle().
			Foreground(white).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray700).
			Padding(0, 2),
		help: lipgloss.NewStyle().
			Foreground(gray700).
			MarginTop(2),
		container: lipgloss.NewStyle().
			Padding(1, 2),
		barFull: lipgloss.NewStyle().
			Foreground(white),
		barEmpty: lipgloss.NewStyle().
			Foreground(gray800),
	}
}
