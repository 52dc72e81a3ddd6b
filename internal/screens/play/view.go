package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	var body string
	switch s.phase {
	case phaseLoading:
		body = s.renderWaiting(width, "Getting your challenges ready...")
	case phaseSaving:
		body = s.renderWaiting(width, "Counting your stars...")
	case phaseFailed:
		body = renderError(width, s.errMsg)
	case phaseAsking:
		body = s.renderChallenge(width)
	case phaseFeedback:
		body = s.renderChallenge(width) + "\n" + s.renderFeedback(width)
	}
	if s.confirmQuit {
		body += "\n\n" + renderQuitConfirm(width)
	}
	return body
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func (s *PlayScreen) renderWaiting(width int, msg string) string {
	return "\n\n" + centered(width, lipgloss.NewStyle().Foreground(theme.Muted),
		s.spinner.View()+" "+msg)
}

func renderError(width int, msg string) string {
	return "\n\n" + centered(width, lipgloss.NewStyle().Foreground(theme.Error), msg)
}

func renderQuitConfirm(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 2).
		Foreground(theme.Text).
		Render("Quit this game? Stars from this round won't be saved.  (y/n)")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// renderChallenge draws the status line, the timer and the question card.
func (s *PlayScreen) renderChallenge(width int) string {
	totals := s.runner.Totals()
	index := s.runner.Index()
	if s.phase == phaseFeedback {
		index = totals.Completed - 1
	}

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Challenge %d of %d", index+1, s.runner.Len()))
	right := lipgloss.NewStyle().Foreground(theme.Gold).
		Render(fmt.Sprintf("★ %d  ", totals.Stars))
	pad := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	var b strings.Builder
	b.WriteString(left + strings.Repeat(" ", pad) + right)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0))))
	b.WriteString("\n")

	if s.timed && s.phase == phaseAsking {
		b.WriteString(s.renderTimer(width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cw := components.ContentWidth(width)
	card := components.Card(s.renderQuestion(), cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	return b.String()
}

func (s *PlayScreen) renderQuestion() string {
	cur := s.last.Challenge
	if s.phase == phaseAsking {
		cur, _ = s.runner.Current()
	}
	var b strings.Builder
	if cur.Story != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Italic(true).Render(cur.Story))
		b.WriteString("\n\n")
	}
	if cur.Image != "" {
		b.WriteString(cur.Image + "\n\n")
	}
	b.WriteString(s.mc.View())
	return b.String()
}

// renderTimer shows the remaining time and the bonus still on offer.
func (s *PlayScreen) renderTimer(width int) string {
	limit := s.svc.Session.TimeLimit
	remaining := max(limit-s.elapsed, 0)

	bar := components.Gauge{
		Label:    fmt.Sprintf("  ⏱ %2ds", int(remaining.Seconds())),
		Fraction: float64(remaining) / float64(limit),
		Width:    width / 2,
	}
	if remaining < limit/4 {
		bar.Fill = theme.Error
	}

	line := bar.View()
	tier := rewards.TierFor(rewards.BonusStars(s.elapsed, limit))
	if tier != rewards.TierNone {
		line += lipgloss.NewStyle().Foreground(theme.Gold).
			Render(fmt.Sprintf("   %s +%d bonus now", tier.Icon(), rewards.BonusStars(s.elapsed, limit)))
	}
	return line
}

func (s *PlayScreen) renderFeedback(width int) string {
	a := s.last
	var lines []string

	switch {
	case s.timeUp:
		lines = append(lines, theme.Incorrect.Render("⏰ Time's up!"),
			fmt.Sprintf("The answer was %s.", a.Challenge.CorrectAnswer))
	case a.Outcome == rewards.Correct:
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Correct! +%d ★", a.Stars)))
	case a.Outcome == rewards.Wrong:
		lines = append(lines, theme.Incorrect.Render("Not quite."),
			fmt.Sprintf("The answer is %s. +%d ★ for trying", a.Challenge.CorrectAnswer, a.Stars))
	default:
		lines = append(lines, fmt.Sprintf("Skipped. The answer is %s.", a.Challenge.CorrectAnswer))
	}

	if a.Bonus > 0 {
		tier := rewards.TierFor(a.Bonus)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
			Render(fmt.Sprintf("%s %s +%d bonus ★", tier.Icon(), tier.DisplayName(), a.Bonus)))
	}
	if a.Elapsed != nil && s.timed && !s.timeUp {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Muted).
			Render(fmt.Sprintf("Answered in %.1fs", a.Elapsed.Seconds())))
	}

	next := "Press any key for the next challenge"
	if s.runner.Phase() == session.PhaseFinished {
		next = "Press any key to see your results"
	}
	lines = append(lines, "", theme.Hint.Render(next))

	return centered(width, lipgloss.NewStyle().Foreground(theme.Text), strings.Join(lines, "\n"))
}
