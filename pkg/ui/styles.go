// Package ui provides terminal styling and the install progress display.
package ui

import "github.com/charmbracelet/lipgloss"

// Common styles used across the application.
var (
	// Status colors
	StatusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	StatusMissingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	// Text styles
	BoldStyle = lipgloss.NewStyle().Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Layout styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// Status glyphs for check and install results.
const (
	GlyphOK      = "✓"
	GlyphWarning = "!"
	GlyphError   = "✗"
	GlyphMissing = "−"
	GlyphArrow   = "→"
)

// StatusGlyph renders a colored glyph for a doctor check status name.
func StatusGlyph(status string) string {
	switch status {
	case "ok":
		return StatusOKStyle.Render(GlyphOK)
	case "warning":
		return StatusWarningStyle.Render(GlyphWarning)
	case "error":
		return StatusErrorStyle.Render(GlyphError)
	default:
		return StatusMissingStyle.Render(GlyphMissing)
	}
}

// Success renders a success line.
func Success(msg string) string {
	return SuccessStyle.Render(GlyphOK) + " " + msg
}

// Warn renders a warning line.
func Warn(msg string) string {
	return WarningStyle.Render(GlyphWarning) + " " + msg
}

// Fail renders an error line.
func Fail(msg string) string {
	return ErrorStyle.Render(GlyphError) + " " + msg
}

// Step renders an in-progress step line.
func Step(msg string) string {
	return AccentStyle.Render(GlyphArrow) + " " + msg
}
