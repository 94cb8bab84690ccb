package sheet

import "github.com/charmbracelet/lipgloss"

// Styles are the sheet's visual props. They are applied verbatim.
type Styles struct {
	Frame  lipgloss.Style
	Handle lipgloss.Style
	Title  lipgloss.Style
	// HandleGlyph is repeated to draw the grab bar.
	HandleGlyph string
	// HandleWidth is the width of the grab bar in cells.
	HandleWidth int
}

// DefaultStyles returns a neutral style set for terminals without a theme.
func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
		Handle:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Title:       lipgloss.NewStyle().Bold(true).Padding(0, 1),
		HandleGlyph: "━",
		HandleWidth: 12,
	}
}
