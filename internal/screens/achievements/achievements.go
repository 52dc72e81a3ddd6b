// Package achievements lists the achievement catalog with progress.
package achievements

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Lister is the catalog read the screen needs.
type Lister interface {
	All(ctx context.Context) ([]achievement.Achievement, error)
}

type loadedMsg struct {
	All []achievement.Achievement
	Err error
}

// AchievementsScreen shows every achievement and how close it is.
type AchievementsScreen struct {
	catalog Lister
	all     []achievement.Achievement
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates an AchievementsScreen.
func New(catalog Lister) *AchievementsScreen {
	return &AchievementsScreen{catalog: catalog}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	catalog := s.catalog
	return func() tea.Msg {
		all, err := catalog.All(context.Background())
		return loadedMsg{All: all, Err: err}
	}
}

func (s *AchievementsScreen) Title() string { return "Achievements" }

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(loadedMsg); ok {
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.all = msg.All
		}
	}
	return s, nil
}

func (s *AchievementsScreen) View(width, height int) string {
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }
	switch {
	case s.errMsg != "":
		return "\n\n" + center(lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg))
	case !s.loaded:
		return "\n\n" + center(lipgloss.NewStyle().Foreground(theme.Muted).Render("Loading achievements..."))
	case len(s.all) == 0:
		return "\n\n" + center(theme.Hint.Render("No achievements yet. Try `learnquest seed`."))
	}

	unlocked := 0
	for _, a := range s.all {
		if a.State() == achievement.StateUnlocked {
			unlocked++
		}
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Sky).Bold(true).
		Render(fmt.Sprintf("🏆 %d of %d unlocked", unlocked, len(s.all)))))
	b.WriteString("\n\n")
	for _, a := range s.all {
		b.WriteString(center(renderAchievement(a, cw)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderAchievement(a achievement.Achievement, cw int) string {
	nameStyle := lipgloss.NewStyle().Foreground(theme.Muted)
	status := lipgloss.NewStyle().Foreground(theme.Muted).Render("locked")
	switch a.State() {
	case achievement.StateUnlocked:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
		status = theme.Correct.Render("unlocked")
		if a.UnlockedAt != nil {
			status += lipgloss.NewStyle().Foreground(theme.Muted).Render(" " + a.UnlockedAt.Format("Jan 02"))
		}
	case achievement.StateProgressing:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		status = lipgloss.NewStyle().Foreground(theme.Accent).Render("in progress")
	}

	lines := []string{
		fmt.Sprintf("%s %s  %s  %s", a.Icon, nameStyle.Render(a.Name),
			lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d ★", a.BonusStars)), status),
		lipgloss.NewStyle().Foreground(theme.Muted).Render(a.Description),
	}
	if a.Target > 1 {
		done := a.Progress
		if a.State() == achievement.StateUnlocked {
			done = a.EffectiveTarget()
		}
		bar := components.Gauge{
			Label:    fmt.Sprintf("%d/%d", done, a.EffectiveTarget()),
			Fraction: components.Ratio(done, a.EffectiveTarget()),
			Width:    cw - 6,
			Fill:     theme.Gold,
		}
		lines = append(lines, bar.View())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
