package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

const arcadeTitleFull = ` _                            ___                  _
| |    ___  __ _ _ __ _ __   / _ \ _   _  ___  ___| |_
| |   / _ \/ _' | '__| '_ \ | | | | | | |/ _ \/ __| __|
| |__|  __/ (_| | |  | | | || |_| | |_| |  __/\__ \ |_
|_____\___|\__,_|_|  |_| |_| \__\_\\__,_|\___||___/\__|`

const arcadeTitleCompact = "L E A R N · Q U E S T"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	art := arcadeTitleFull
	if compact || cw < lipgloss.Width(arcadeTitleFull) {
		art = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(art))
}

type stats struct {
	stars    int
	streak   int
	unlocked int
	total    int
}

// renderStatsBar renders the star, streak and trophy counters.
func renderStatsBar(s stats, cw int, compact bool) string {
	starStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	trophyStyle := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			starStyle.Render(fmt.Sprintf("★%d", s.stars)),
			streakStyle.Render(fmt.Sprintf("🔥%d", s.streak)),
			trophyStyle.Render(fmt.Sprintf("🏆%d/%d", s.unlocked, s.total)))
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			starStyle.Render(fmt.Sprintf("★ %d STARS", s.stars)),
			streakStyle.Render(fmt.Sprintf("🔥 %d DAY STREAK", s.streak)),
			trophyStyle.Render(fmt.Sprintf("🏆 %d/%d", s.unlocked, s.total)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Sky).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderNotice(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render(msg)
}
