package home

import (
	"context"
	"strings"
	"testing"
	"time"

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

func newServices(t *testing.T) *screen.Services {
	t.Helper()
	b := store.NewMemory()
	achRecs := store.NewCollection[achievement.Achievement](b, store.Achievements)
	catalog := achievement.NewCatalog(achRecs)
	if _, err := catalog.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &screen.Services{
		Challenges:   challenge.NewService(store.NewCollection[challenge.Challenge](b, store.Challenges)),
		Progress:     progress.NewService(store.NewCollection[progress.Progress](b, store.Progress)),
		Achievements: catalog,
		History:      session.NewHistory(store.NewCollection[session.Result](b, store.Sessions)),
		Session:      session.DefaultConfig(),
	}
}

func TestHomeScreen_ToggleTimed(t *testing.T) {
	h := New(newServices(t), false)
	if !strings.Contains(h.View(120, 40), "TIMED: OFF") {
		t.Fatal("expected timed off label")
	}

	h.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	if !h.Timed() {
		t.Fatal("expected timed mode after T")
	}
	if !strings.Contains(h.View(120, 40), "TIMED: ON") {
		t.Error("expected timed on label")
	}
}

func TestHomeScreen_SelectSubjectPushesPlay(t *testing.T) {
	h := New(newServices(t), true)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*play.PlayScreen); !ok {
		t.Errorf("expected play screen, got %T", push.Screen)
	}
}

func TestHomeScreen_ProgressAndAchievements(t *testing.T) {
	h := New(newServices(t), false)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	h.Update(screen.ProgressMsg{Progress: progress.Progress{TotalStars: 57, Streak: 3}})
	if h.stats.stars != 57 || h.stats.streak != 3 {
		t.Errorf("stats = %+v", h.stats)
	}

	recent := now.Add(-time.Hour)
	h.Update(achievementsLoadedMsg{All: []achievement.Achievement{
		{ID: 1, Name: "Speed Demon", Unlocked: true, UnlockedAt: &recent},
		{ID: 2, Name: "Time Master", Progress: 4, Target: 10},
	}})
	if h.stats.unlocked != 1 || h.stats.total != 2 {
		t.Errorf("unlocked/total = %d/%d", h.stats.unlocked, h.stats.total)
	}
	if !h.recentUnlock {
		t.Error("expected recent unlock")
	}
}

func TestHomeScreen_InitLoadsCatalog(t *testing.T) {
	h := New(newServices(t), false)
	batch, ok := h.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected BatchMsg from Init")
	}
	var loaded bool
	for _, c := range batch {
		if msg, ok := c().(achievementsLoadedMsg); ok {
			loaded = true
			if msg.Err != nil || len(msg.All) != len(achievement.DefaultCatalog()) {
				t.Errorf("loaded %d achievements, err %v", len(msg.All), msg.Err)
			}
		}
	}
	if !loaded {
		t.Error("Init did not load achievements")
	}
}
