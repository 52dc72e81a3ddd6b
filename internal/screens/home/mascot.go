package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // an achievement unlocked in the last day
	MascotOnFire                    // streak of three days or more
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A+1 │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A+1 │
└─╥═╥─┘
  ╚═╝`

const mascotOnFire = `  ^ ^
┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A+1 │
└─────┘`

// pickMascot chooses the variant for the home screen.
func pickMascot(recentUnlock bool, streak int) MascotVariant {
	switch {
	case recentUnlock:
		return MascotCelebrating
	case streak >= 3:
		return MascotOnFire
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Gold
	case MascotOnFire:
		art, fg = mascotOnFire, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
