// Package results shows what a finished game earned.
package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Params is everything the results screen displays.
type Params struct {
	Summary session.Summary
	Answers []session.Answer
	// Warning is shown when some writes did not land.
	Warning string
	// Again builds a fresh game with the same settings.
	Again func() screen.Screen
}

// ResultsScreen displays the session summary and unlocked achievements.
type ResultsScreen struct {
	svc *screen.Services
	p   Params
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.EscapeHandler = (*ResultsScreen)(nil)

// New creates a ResultsScreen.
func New(svc *screen.Services, p Params) *ResultsScreen {
	return &ResultsScreen{svc: svc, p: p}
}

// Init refreshes the header with the credited star total.
func (s *ResultsScreen) Init() tea.Cmd {
	if s.svc == nil || s.svc.Progress == nil {
		return nil
	}
	prog := s.svc.Progress
	return func() tea.Msg {
		p, err := prog.Current(context.Background())
		if err != nil {
			return nil
		}
		return screen.ProgressMsg{Progress: p}
	}
}

func (s *ResultsScreen) Title() string { return "Results" }

func (s *ResultsScreen) HandlesEscape() bool { return true }

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.p.Again != nil {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Play again"})
	}
	return hints
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "p", "P":
		if s.p.Again != nil {
			next := s.p.Again()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.p.Summary
	res := sum.Result
	cw := components.ContentWidth(width)
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(cheer(res.Accuracy))))
	b.WriteString("\n\n")

	stars := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
		Render(fmt.Sprintf("★ %d stars earned", res.StarsEarned))
	if res.BonusStars > 0 {
		stars += lipgloss.NewStyle().Foreground(theme.Muted).
			Render(fmt.Sprintf("  (%d speed bonus)", res.BonusStars))
	}

	stats := []string{
		stars,
		fmt.Sprintf("Accuracy %d%%   ·   %d challenges   ·   %s", res.Accuracy, res.ChallengesCompleted, clock(res.DurationSeconds)),
	}
	if res.AverageTimeSeconds != nil {
		stats = append(stats, fmt.Sprintf("Average time %.1fs per challenge", *res.AverageTimeSeconds))
	}
	b.WriteString(center(components.Card(strings.Join(stats, "\n"), cw)))
	b.WriteString("\n\n")

	for i, a := range s.p.Answers {
		b.WriteString(center(answerLine(i, a, cw)))
		b.WriteString("\n")
	}

	if len(sum.Unlocked) > 0 {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Sky).Bold(true).Render("Achievements unlocked!")))
		b.WriteString("\n")
		for _, a := range sum.Unlocked {
			line := fmt.Sprintf("%s %s  +%d ★", a.Icon, a.Name, a.BonusStars)
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Gold).Render(line)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Total stars: %d", sum.TotalStars))))
	if s.p.Warning != "" {
		b.WriteString("\n\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Render("⚠ " + s.p.Warning)))
	}
	return b.String()
}

func cheer(accuracy int) string {
	switch {
	case accuracy == 100:
		return "Perfect round!"
	case accuracy >= 80:
		return "Amazing work!"
	case accuracy >= 50:
		return "Nice going!"
	default:
		return "Round complete. Keep practicing!"
	}
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func answerLine(i int, a session.Answer, width int) string {
	mark := theme.Incorrect.Render("✗")
	switch a.Outcome {
	case rewards.Correct:
		mark = theme.Correct.Render("✓")
	case rewards.Unanswered:
		mark = lipgloss.NewStyle().Foreground(theme.Muted).Render("–")
	}

	reward := fmt.Sprintf("+%d ★", a.Stars)
	if a.Bonus > 0 {
		reward += fmt.Sprintf(" %s+%d", rewards.TierFor(a.Bonus).Icon(), a.Bonus)
	}

	q := a.Challenge.Question
	room := width - lipgloss.Width(reward) - 8
	if r := []rune(q); room > 3 && len(r) > room {
		q = string(r[:room-1]) + "…"
	}
	return fmt.Sprintf("%d. %s %s  %s", i+1, mark, q,
		lipgloss.NewStyle().Foreground(theme.Gold).Render(reward))
}
