// Package home is the root menu: pick a subject, toggle timed mode or
// browse achievements and history.
package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/achievements"
	"github.com/abhisek/learnquest/internal/screens/history"
	"github.com/abhisek/learnquest/internal/screens/play"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
)

type achievementsLoadedMsg struct {
	All []achievement.Achievement
	Err error
}

// HomeScreen is the root screen.
type HomeScreen struct {
	svc       *screen.Services
	menu      components.Menu
	timed     bool
	timedItem int
	now       func() time.Time

	stats        stats
	recentUnlock bool
	notice       string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. timed sets the initial mode.
func New(svc *screen.Services, timed bool) *HomeScreen {
	h := &HomeScreen{svc: svc, timed: timed, now: time.Now}

	var items []components.MenuItem
	for _, t := range challenge.AllTypes() {
		subject := t
		items = append(items, components.MenuItem{
			Label: strings.ToUpper(subject.DisplayName()),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: play.New(h.svc, subject, h.timed)}
				}
			},
		})
	}
	h.timedItem = len(items)
	items = append(items,
		components.MenuItem{Label: timedLabel(timed), Action: func() tea.Cmd {
			h.timed = !h.timed
			h.menu.SetLabel(h.timedItem, timedLabel(h.timed))
			return nil
		}},
		components.MenuItem{Label: "ACHIEVEMENTS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: achievements.New(h.svc.Achievements)}
			}
		}},
		components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.svc.History)}
			}
		}},
		components.MenuItem{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

func timedLabel(on bool) string {
	if on {
		return "⏱ TIMED: ON"
	}
	return "⏱ TIMED: OFF"
}

// Timed reports whether new games start in timed mode.
func (h *HomeScreen) Timed() bool { return h.timed }

// Init reloads progress and achievements; it runs again whenever the
// player returns home.
func (h *HomeScreen) Init() tea.Cmd {
	prog, catalog := h.svc.Progress, h.svc.Achievements
	return tea.Batch(
		func() tea.Msg {
			p, err := prog.Current(context.Background())
			if err != nil {
				return nil
			}
			return screen.ProgressMsg{Progress: p}
		},
		func() tea.Msg {
			all, err := catalog.All(context.Background())
			return achievementsLoadedMsg{All: all, Err: err}
		},
	)
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "T", Description: "Timed mode"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressMsg:
		h.stats.stars = msg.Progress.TotalStars
		h.stats.streak = msg.Progress.Streak
		return h, nil
	case achievementsLoadedMsg:
		h.applyAchievements(msg)
		return h, nil
	case tea.KeyMsg:
		if k := msg.String(); k == "t" || k == "T" {
			h.timed = !h.timed
			h.menu.SetLabel(h.timedItem, timedLabel(h.timed))
			return h, nil
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) applyAchievements(msg achievementsLoadedMsg) {
	if msg.Err != nil {
		h.notice = "⚠ Could not load achievements"
		h.svc.Log().Warn("load achievements", zap.Error(msg.Err))
		return
	}
	h.notice = ""
	h.stats.total = len(msg.All)
	h.stats.unlocked = 0
	h.recentUnlock = false
	for _, a := range msg.All {
		if a.State() != achievement.StateUnlocked {
			continue
		}
		h.stats.unlocked++
		if a.UnlockedAt != nil && h.now().Sub(*a.UnlockedAt) < 24*time.Hour {
			h.recentUnlock = true
		}
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := height+6 < 34 || width < 100
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(pickMascot(h.recentUnlock, h.stats.streak), cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}
	sections = append(sections, h.menu.View(cw))

	return components.Cabinet(strings.Join(sections, "\n\n"), width, height)
}
