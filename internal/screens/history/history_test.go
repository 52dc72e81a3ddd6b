package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/session"
)

type stubSource struct {
	sessions []session.Result
	asked    int
}

func (s *stubSource) Recent(_ context.Context, n int) ([]session.Result, error) {
	s.asked = n
	return s.sessions, nil
}

func avg(v float64) *float64 { return &v }

func testSessions() []session.Result {
	ts := time.Date(2026, 6, 1, 16, 30, 0, 0, time.UTC)
	return []session.Result{
		{ID: 2, Subject: challenge.TypeMath, ChallengesCompleted: 5, StarsEarned: 27, Accuracy: 100,
			DurationSeconds: 75, IsTimed: true, AverageTimeSeconds: avg(6.2), BonusStars: 12, Timestamp: ts},
		{ID: 1, Subject: challenge.TypePhonicsRhyming, ChallengesCompleted: 5, StarsEarned: 9, Accuracy: 60,
			DurationSeconds: 40, Timestamp: ts.Add(-time.Hour)},
	}
}

func loaded(t *testing.T) (*HistoryScreen, *stubSource) {
	t.Helper()
	src := &stubSource{sessions: testSessions()}
	s := New(src)
	s.Update(s.Init()())
	return s, src
}

func TestHistoryScreen_LoadsRecent(t *testing.T) {
	s, src := loaded(t)
	if src.asked != Limit {
		t.Errorf("asked for %d sessions, want %d", src.asked, Limit)
	}
	view := s.View(100, 20)
	for _, want := range []string{"Math", "Rhyming", "27", "100%", "timed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "speed bonus") {
		t.Error("details should be collapsed")
	}
}

func TestHistoryScreen_ExpandDetails(t *testing.T) {
	s, _ := loaded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 20)
	for _, want := range []string{"took 1:15", "12 speed bonus", "avg 6.2s"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s, _ := loaded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&stubSource{})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "No games yet") {
		t.Error("expected empty-state message")
	}
}
