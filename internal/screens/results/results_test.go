package results

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/store"
)

func avg(v float64) *float64 { return &v }

func testParams() Params {
	return Params{
		Summary: session.Summary{
			Result: session.Result{
				ID:                  1,
				Subject:             challenge.TypeMath,
				ChallengesCompleted: 2,
				StarsEarned:         9,
				Accuracy:            100,
				DurationSeconds:     14,
				IsTimed:             true,
				AverageTimeSeconds:  avg(7),
				BonusStars:          3,
			},
			Unlocked: []achievement.Achievement{
				{ID: 1, Name: "Speed Demon", Icon: "⚡", BonusStars: 5},
			},
			AchievementBonus: 5,
			TotalStars:       14,
		},
		Answers: []session.Answer{
			{Challenge: challenge.Challenge{Question: "What is 2 + 2?"}, Outcome: rewards.Correct, Stars: 3, Bonus: 2},
			{Challenge: challenge.Challenge{Question: "What is 3 + 3?"}, Outcome: rewards.Correct, Stars: 3, Bonus: 1},
		},
	}
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(nil, testParams())
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestResultsScreen_Display(t *testing.T) {
	p := testParams()
	p.Warning = "1 achievement(s) could not be saved."
	view := New(nil, p).View(100, 30)

	for _, want := range []string{"Perfect round!", "9 stars earned", "3 speed bonus", "Average time 7.0s", "Speed Demon", "Total stars: 14", "could not be saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_UntimedHidesAverage(t *testing.T) {
	p := testParams()
	p.Summary.Result.AverageTimeSeconds = nil
	p.Summary.Unlocked = nil
	view := New(nil, p).View(100, 30)
	if strings.Contains(view, "Average time") || strings.Contains(view, "Achievements unlocked") {
		t.Error("expected no average time or achievements for an untimed game")
	}
}

func TestResultsScreen_EnterGoesHome(t *testing.T) {
	s := New(nil, testParams())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}
}

func TestResultsScreen_PlayAgain(t *testing.T) {
	p := testParams()
	built := 0
	p.Again = func() screen.Screen { built++; return New(nil, testParams()) }
	s := New(nil, p)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'p', Text: "p"})
	if cmd == nil {
		t.Fatal("expected a command on P")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
	if built != 1 {
		t.Errorf("expected one new game, got %d", built)
	}
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}

func TestResultsScreen_InitRefreshesProgress(t *testing.T) {
	prog := progress.NewService(store.NewCollection[progress.Progress](store.NewMemory(), store.Progress))
	if _, err := prog.AddStars(context.Background(), 14); err != nil {
		t.Fatal(err)
	}
	s := New(&screen.Services{Progress: prog}, testParams())

	msg, ok := s.Init()().(screen.ProgressMsg)
	if !ok {
		t.Fatal("expected ProgressMsg from Init")
	}
	if msg.Progress.TotalStars != 14 {
		t.Errorf("TotalStars = %d, want 14", msg.Progress.TotalStars)
	}
}
