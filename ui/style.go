package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle renders list and table headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	// SelectedStyle highlights the selected library row.
	SelectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("8")).
			Bold(true)

	// StatusOK renders success messages.
	StatusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// StatusError renders failure messages.
	StatusError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// StatusBusy renders in-progress markers.
	StatusBusy = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// FooterStyle renders key hints.
	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)
)

// Status renders a per-record state label in its color.
func Status(label string) string {
	switch label {
	case "updating", "launching":
		return StatusBusy.Render(label)
	case "failed":
		return StatusError.Render(label)
	case "ready", "launched", "updated":
		return StatusOK.Render(label)
	default:
		return label
	}
}
