package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/play"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/store"
)

type stubScreen struct {
	title   string
	escapes bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) HandlesEscape() bool  { return s.escapes }

func testServices() *screen.Services {
	b := store.NewMemory()
	return &screen.Services{
		Challenges:   challenge.NewService(store.NewCollection[challenge.Challenge](b, store.Challenges)),
		Progress:     progress.NewService(store.NewCollection[progress.Progress](b, store.Progress)),
		Achievements: achievement.NewCatalog(store.NewCollection[achievement.Achievement](b, store.Achievements)),
		History:      session.NewHistory(store.NewCollection[session.Result](b, store.Sessions)),
		Session:      session.DefaultConfig(),
	}
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestProgressMsgUpdatesHeader(t *testing.T) {
	m := newAppModel(Options{Services: testServices()})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(m, screen.ProgressMsg{Progress: progress.Progress{TotalStars: 42, Streak: 3}})

	if m.stars != 42 || m.streak != 3 {
		t.Fatalf("header = %d stars / %d streak, want 42 / 3", m.stars, m.streak)
	}
	view := m.render()
	if !strings.Contains(view, "★ 42") || !strings.Contains(view, "3 days") {
		t.Error("expected stars and streak in the header")
	}
}

func TestEscPopsUnlessScreenHandlesIt(t *testing.T) {
	m := newAppModel(Options{Services: testServices()})
	esc := tea.KeyPressMsg{Code: tea.KeyEscape}

	plain := &stubScreen{title: "plain"}
	m.router.Update(router.PushScreenMsg{Screen: plain})
	_, cmd := update(m, esc)
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}

	modal := &stubScreen{title: "modal", escapes: true}
	m.router.Update(router.PushScreenMsg{Screen: modal})
	update(m, esc)
	if len(modal.got) != 1 {
		t.Errorf("expected Esc forwarded to the screen, got %d messages", len(modal.got))
	}
}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := newAppModel(Options{Services: testServices()})
	if _, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("expected no command at the root")
	}
}

func TestSubjectStartsGame(t *testing.T) {
	m := newAppModel(Options{Services: testServices(), Subject: challenge.TypeMath, Timed: true})
	msgs, ok := m.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected batched init commands")
	}
	var pushed bool
	for _, c := range msgs {
		if c == nil {
			continue
		}
		if p, ok := c().(router.PushScreenMsg); ok {
			_, pushed = p.Screen.(*play.PlayScreen)
		}
	}
	if !pushed {
		t.Error("expected a play screen to be pushed")
	}
}

func TestTooSmall(t *testing.T) {
	m := newAppModel(Options{Services: testServices()})
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.render(), "a little bigger") {
		t.Error("expected the resize message")
	}
}
