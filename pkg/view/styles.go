package view

import "github.com/charmbracelet/lipgloss"

const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaComment    = "#6272A4"

	maxColumnWidth = 32
)

const (
	title        = "📡 Sensor Data"
	emptyMessage = "Loading or no sensor data found."
)

type styles struct {
	title, error, empty, footer, frame, header, cell lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)),
		empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)).
			Italic(true),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaPurple)),
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)).
			Bold(true).
			Padding(0, 1),
		cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Padding(0, 1),
	}
}
