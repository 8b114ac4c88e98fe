package analysis

import (
	"strings"

	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the styling used by report formatting.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	Heading  lipgloss.Style
	Up       lipgloss.Style
	Down     lipgloss.Style
	BarFill  lipgloss.Style
	BarEmpty lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Warning:  cli.WarningStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.InfoColor).
		MarginTop(1)

	s.Up = lipgloss.NewStyle().Foreground(cli.SuccessColor)
	s.Down = lipgloss.NewStyle().Foreground(cli.ErrorColor)

	s.BarFill = lipgloss.NewStyle().Foreground(cli.PrimaryColor)
	s.BarEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))

	return s
}

// Plain returns styles that render no escape codes, for tests and
// redirected output.
func Plain() *Styles {
	none := lipgloss.NewStyle()
	return &Styles{
		Title: none, Subtitle: none, Warning: none, Info: none, Subtle: none, Normal: none,
		Heading: none, Up: none, Down: none, BarFill: none, BarEmpty: none,
	}
}

// RenderBar draws value as a horizontal bar scaled against maxValue.
func (s *Styles) RenderBar(value, maxValue float64, width int) string {
	if width <= 0 {
		width = 30
	}
	filled := 0
	if maxValue > 0 {
		filled = int(float64(width) * value / maxValue)
	}
	filled = max(0, min(filled, width))

	return s.BarFill.Render(strings.Repeat("█", filled)) +
		s.BarEmpty.Render(strings.Repeat("░", width-filled))
}
