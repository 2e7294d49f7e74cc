package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	row      lipgloss.Style
	selected lipgloss.Style
	disabled lipgloss.Style
	footer   lipgloss.Style
	help     lipgloss.Style
	status   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		row:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		disabled: lipgloss.NewStyle().Faint(true),
		footer:   lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("245")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		status:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("78")),
	}
}
