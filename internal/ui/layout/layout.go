// Package layout draws the chrome around every screen: the status
// header, the key-hint footer and the body between them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Smallest terminal the app will draw into.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Fits reports whether a width x height terminal is large enough.
func Fits(width, height int) bool {
	return width >= MinWidth && height >= MinHeight
}

// TooSmall is shown in place of the app when the terminal does not fit.
func TooSmall(width, height int) string {
	return theme.Fg(theme.Text).
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("Make the window a little bigger!\n\nNeed %dx%d, have %dx%d",
			MinWidth, MinHeight, width, height))
}

// Header is the status bar: game name, screen title and the player's
// star and streak counters.
type Header struct {
	Title  string
	Stars  int
	Streak int
}

func (h Header) Render(width int) string {
	brand := theme.Fg(theme.Primary).Bold(true).Render("  LearnQuest")
	title := theme.Fg(theme.Text).Render(h.Title)
	days := "days"
	if h.Streak == 1 {
		days = "day"
	}
	counters := theme.Fg(theme.Gold).Render(fmt.Sprintf("★ %d", h.Stars)) + "   " +
		theme.Fg(theme.Accent).Render(fmt.Sprintf("🔥 %d %s", h.Streak, days))

	// Title centred in the bar, counters pushed to the right edge.
	inner := max(width-4, 0)
	bw, tw, cw := lipgloss.Width(brand), lipgloss.Width(title), lipgloss.Width(counters)
	gapL := max((inner-tw)/2-bw, 1)
	gapR := max(inner-bw-gapL-tw-cw, 1)

	line := brand + strings.Repeat(" ", gapL) + title + strings.Repeat(" ", gapR) + counters
	return theme.Panel(width).Render(line)
}

// Footer renders the key hints of the active screen.
func Footer(hints []KeyHint, width int) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(theme.Fg(theme.Text).Bold(true).Render(h.Key))
		b.WriteByte(' ')
		b.WriteString(theme.Fg(theme.Muted).Render(h.Description))
	}
	return theme.Panel(width).Render(b.String())
}

// BodyHeight is what remains of height once header and footer are drawn.
func BodyHeight(height int, header, footer string) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// Frame stacks header, body and footer, padding the body so the footer
// sits on the last rows.
func Frame(header, body, footer string, width, height int) string {
	body = lipgloss.NewStyle().
		Width(width).
		Height(BodyHeight(height, header, footer)).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
