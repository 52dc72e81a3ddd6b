// Package theme holds the LearnQuest palette and the few shared styles
// the screens compose from.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#10B981") // emerald
	Accent    = lipgloss.Color("#FB923C") // tangerine
	Gold      = lipgloss.Color("#FBBF24") // stars and trophies
	Sky       = lipgloss.Color("#38BDF8") // timed mode

	Success = lipgloss.Color("#4ADE80")
	Error   = lipgloss.Color("#F87171")

	Text     = lipgloss.Color("#F1F5F9")
	Muted    = lipgloss.Color("#9CA3AF")
	Backdrop = lipgloss.Color("#111827")
	Surface  = lipgloss.Color("#1F2937")
	Border   = lipgloss.Color("#374151")
)

var (
	Hint     = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	Selected = lipgloss.NewStyle().Foreground(Gold).Bold(true)

	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Panel is a rounded box on the surface color, used for headers,
// footers and cards.
func Panel(width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Background(Surface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	if width > 0 {
		s = s.Width(width)
	}
	return s
}

// Fg returns a plain style with the given foreground.
func Fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
