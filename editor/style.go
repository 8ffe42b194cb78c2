package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Text         lipgloss.Style
	Disabled     lipgloss.Style
	Selection    lipgloss.Style
	Cursor       lipgloss.Style
	Status       lipgloss.Style
	Expanded     lipgloss.Style
	Notice       lipgloss.Style
}

func DefaultStyle() Style {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	notice := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1)
	return Style{
		Label:        dim,
		LabelFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Text:         lipgloss.NewStyle(),
		Disabled:     dim.Italic(true),
		Selection:    lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:       lipgloss.NewStyle().Reverse(true),
		Status:       dim,
		Expanded:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Notice:       notice,
	}
}
