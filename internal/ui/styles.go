package ui

import "github.com/charmbracelet/lipgloss"

// Color palette shared with the rest of the CLI.
const (
	ColorLime     = "154" // Success accent
	ColorGray     = "245" // Secondary text, labels
	ColorDarkGray = "238" // Codes, separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings, hints
)

// Styles holds the styles used on stderr.
type Styles struct {
	Error   lipgloss.Style
	Hint    lipgloss.Style
	Code    lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles returns styles bound to lipgloss's default renderer.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// NewStyles returns the colored styles bound to r, so color detection follows
// r's output rather than stdout.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Hint:    r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Code:    r.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Warning: r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Success: r.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Label:   r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Error:   lipgloss.NewStyle(),
		Hint:    lipgloss.NewStyle(),
		Code:    lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
