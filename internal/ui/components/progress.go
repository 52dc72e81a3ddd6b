package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Gauge is a one-line horizontal meter with an optional label before it
// and an optional percentage after it.
type Gauge struct {
	Label    string
	Fraction float64 // clamped to [0, 1] when drawn
	Width    int     // whole line, label included
	Percent  bool
	Fill     color.Color // nil draws theme.Secondary
}

// Ratio returns done/total clamped to [0, 1]; zero totals give 0.
func Ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(done)/float64(total), 0), 1)
}

func (g Gauge) View() string {
	var b strings.Builder
	if g.Label != "" {
		b.WriteString(theme.Fg(theme.Text).Render(g.Label))
		b.WriteString("  ")
	}
	suffix := ""
	f := min(max(g.Fraction, 0), 1)
	if g.Percent {
		suffix = fmt.Sprintf("  %d%%", int(f*100))
	}

	cells := max(g.Width-lipgloss.Width(b.String())-len(suffix), 4)
	on := int(float64(cells) * f)
	fill := g.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	b.WriteString(lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", on)))
	b.WriteString(lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", cells-on)))
	b.WriteString(theme.Fg(theme.Muted).Render(suffix))
	return b.String()
}
