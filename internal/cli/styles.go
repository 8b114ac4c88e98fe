// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors.
var (
	PrimaryColor = lipgloss.Color("#5DA9E9")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
)

// manaColors tints color identity symbols in WUBRG order.
var manaColors = map[rune]lipgloss.Color{
	'W': lipgloss.Color("#F8E7B9"),
	'U': lipgloss.Color("#5DA9E9"),
	'B': lipgloss.Color("#A69F9D"),
	'R': lipgloss.Color("#F25C54"),
	'G': lipgloss.Color("#4CAF50"),
}

var (
	// TitleStyle is used for report and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle describes the deck selection under a title.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoxStyle frames import summaries.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	DeckIcon    = "🃏"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the deck icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(DeckIcon + " " + title)
}

// ManaPips renders a color identity key such as "UG" with each symbol in
// its mana color. The empty key renders as "C".
func ManaPips(key string) string {
	if key == "" {
		return SubtleStyle.Render("C")
	}
	var b strings.Builder
	for _, r := range key {
		style := lipgloss.NewStyle().Bold(true)
		if c, ok := manaColors[r]; ok {
			style = style.Foreground(c)
		}
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// RenderBox renders content under a title in a rounded box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}
