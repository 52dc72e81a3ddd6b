// Package history lists recent games.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Limit is how many sessions the screen loads.
const Limit = 50

// Source is the session history read the screen needs.
type Source interface {
	Recent(ctx context.Context, n int) ([]session.Result, error)
}

type loadedMsg struct {
	results []session.Result
	err     error
}

// HistoryScreen is a scrollable table of past games, newest first. Enter
// opens the detail row of the highlighted game.
type HistoryScreen struct {
	source   Source
	results  []session.Result
	selected int
	open     int // index with details shown, -1 for none
	loaded   bool
	err      error
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(source Source) *HistoryScreen {
	return &HistoryScreen{source: source, open: -1}
}

func (s *HistoryScreen) Init() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		res, err := src.Recent(context.Background(), Limit)
		return loadedMsg{results: res, err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.results, s.err = msg.results, msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = max(min(s.selected+1, len(s.results)-1), 0)
		case "enter":
			if s.open == s.selected {
				s.open = -1
			} else {
				s.open = s.selected
			}
		}
	}
	return s, nil
}

var (
	rowStyle    = theme.Fg(theme.Text)
	cursorStyle = theme.Fg(theme.Gold).Bold(true)
	headStyle   = theme.Fg(theme.Muted).Underline(true)
	detailStyle = theme.Fg(theme.Sky)
)

const rowFormat = "%-12s  %-16s %-7s  %4s  %4s"

func (s *HistoryScreen) View(width, height int) string {
	place := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }
	switch {
	case s.err != nil:
		return "\n\n" + place(theme.Fg(theme.Error).Render("Could not load history: "+s.err.Error()))
	case !s.loaded:
		return "\n\n" + place(theme.Hint.Render("Loading history..."))
	case len(s.results) == 0:
		return "\n\n" + place(theme.Hint.Render("No games yet. Go earn some stars!"))
	}

	// Header and blank line take two rows; scroll so the cursor stays visible.
	visible := max(height-3, 1)
	top := max(s.selected-visible+1, 0)

	lines := []string{"", headStyle.Render(fmt.Sprintf(rowFormat, "WHEN", "SUBJECT", "MODE", "★", "ACC"))}
	for i := top; i < len(s.results) && i < top+visible; i++ {
		r := s.results[i]
		st := rowStyle
		if i == s.selected {
			st = cursorStyle
		}
		lines = append(lines, st.Render(row(r)))
		if i == s.open {
			lines = append(lines, detailStyle.Render(details(r)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func row(r session.Result) string {
	mode := ""
	if r.IsTimed {
		mode = "⏱ timed"
	}
	return fmt.Sprintf(rowFormat,
		r.Timestamp.Local().Format("Jan 02 15:04"),
		r.Subject.DisplayName(),
		mode,
		fmt.Sprint(r.StarsEarned),
		fmt.Sprintf("%d%%", r.Accuracy))
}

func details(r session.Result) string {
	d := []string{
		fmt.Sprintf("%d challenges", r.ChallengesCompleted),
		fmt.Sprintf("took %d:%02d", r.DurationSeconds/60, r.DurationSeconds%60),
	}
	if r.BonusStars > 0 {
		d = append(d, fmt.Sprintf("%d speed bonus", r.BonusStars))
	}
	if avg := r.AverageTimeSeconds; avg != nil {
		d = append(d, fmt.Sprintf("avg %.1fs", *avg))
	}
	return strings.Join(d, " · ")
}
