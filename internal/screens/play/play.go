// Package play is the screen that runs one batch of challenges.
package play

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/results"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/store"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAsking
	phaseFeedback
	phaseSaving
	phaseFailed // loading or saving failed
)

// PlayScreen runs a session.Runner: it serves each challenge, times it in
// timed mode and persists the finished game through the Finisher.
type PlayScreen struct {
	svc     *screen.Services
	subject challenge.Type
	timed   bool
	now     func() time.Time

	runner  *session.Runner
	mc      components.MultiChoice
	spinner spinner.Model
	phase   phase
	seq     int
	started time.Time
	elapsed time.Duration
	last    session.Answer
	timeUp  bool

	confirmQuit bool
	errMsg      string
	canRetry    bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.EscapeHandler = (*PlayScreen)(nil)

// Option configures a PlayScreen.
type Option func(*PlayScreen)

// WithClock overrides the time source used for challenge timers.
func WithClock(now func() time.Time) Option {
	return func(s *PlayScreen) { s.now = now }
}

// New creates a play screen for subject.
func New(svc *screen.Services, subject challenge.Type, timed bool, opts ...Option) *PlayScreen {
	s := &PlayScreen{
		svc:     svc,
		subject: subject,
		timed:   timed,
		now:     time.Now,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *PlayScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.loadBatch())
}

func (s *PlayScreen) Title() string {
	if s.timed {
		return s.subject.DisplayName() + " · Timed"
	}
	return s.subject.DisplayName()
}

// HandlesEscape keeps Esc for the quit prompt while a game is running.
func (s *PlayScreen) HandlesEscape() bool {
	return s.phase == phaseAsking || s.phase == phaseFeedback
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit game"},
			{Key: "N", Description: "Keep playing"},
		}
	}
	switch s.phase {
	case phaseAsking:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-4", Description: "Pick"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case phaseFailed:
		if s.canRetry {
			return []layout.KeyHint{
				{Key: "R", Description: "Try again"},
				{Key: "Esc", Description: "Back"},
			}
		}
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	default:
		return nil
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchLoadedMsg:
		return s.handleBatch(msg)
	case tickMsg:
		return s.handleTick(msg)
	case finishedMsg:
		return s.handleFinished(msg)
	case spinner.TickMsg:
		if s.phase != phaseLoading && s.phase != phaseSaving {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) loadBatch() tea.Cmd {
	svc, subject, n := s.svc, s.subject, s.svc.Session.BatchSize
	return func() tea.Msg {
		cs, err := svc.Challenges.RandomByType(context.Background(), subject, n)
		return batchLoadedMsg{Challenges: cs, Err: err}
	}
}

func (s *PlayScreen) handleBatch(msg batchLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.fail(fmt.Sprintf("Could not load challenges: %v", msg.Err), false)
		return s, nil
	}
	if len(msg.Challenges) == 0 {
		s.fail(fmt.Sprintf("No %s challenges yet. Try another subject!", s.subject.DisplayName()), false)
		return s, nil
	}

	cfg := s.svc.Session
	cfg.Timed = s.timed
	r, err := session.NewRunner(cfg, s.subject, msg.Challenges, session.WithClock(s.now))
	if err != nil {
		s.fail(err.Error(), false)
		return s, nil
	}
	s.runner = r
	s.svc.Log().Debug("game started",
		zap.String("session_key", r.Key()),
		zap.String("subject", string(s.subject)),
		zap.Bool("timed", s.timed),
		zap.Int("challenges", r.Len()))
	return s, s.startChallenge()
}

func (s *PlayScreen) startChallenge() tea.Cmd {
	cur, ok := s.runner.Current()
	if !ok {
		return nil
	}
	s.mc = components.NewMultiChoice(cur.Question, cur.Options, cur.CorrectAnswer)
	s.phase = phaseAsking
	s.started = s.now()
	s.elapsed = 0
	s.timeUp = false
	s.seq++
	if s.timed {
		return tick(s.seq)
	}
	return nil
}

func tick(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{Seq: seq, At: t}
	})
}

func (s *PlayScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.seq || s.phase != phaseAsking {
		return s, nil
	}
	s.elapsed = s.now().Sub(s.started)
	if s.elapsed >= s.svc.Session.TimeLimit {
		return s.expire()
	}
	return s, tick(s.seq)
}

// expire records the current challenge as unanswered.
func (s *PlayScreen) expire() (screen.Screen, tea.Cmd) {
	s.mc.Reveal()
	s.timeUp = true
	if _, err := s.runner.TimeUp(); err != nil {
		s.fail(err.Error(), false)
		return s, nil
	}
	s.recordLast()
	return s, nil
}

func (s *PlayScreen) answer() (screen.Screen, tea.Cmd) {
	var elapsed *time.Duration
	if s.timed {
		d := s.now().Sub(s.started)
		elapsed = &d
	}
	if _, err := s.runner.Answer(s.mc.Choice(), elapsed); err != nil {
		s.fail(err.Error(), false)
		return s, nil
	}
	s.recordLast()
	return s, nil
}

func (s *PlayScreen) recordLast() {
	answers := s.runner.Answers()
	s.last = answers[len(answers)-1]
	s.phase = phaseFeedback
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			if s.runner != nil {
				s.runner.Abandon()
				s.svc.Log().Debug("game abandoned", zap.String("session_key", s.runner.Key()))
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.phase {
	case phaseAsking:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		s.mc, _ = s.mc.Update(msg)
		if s.mc.Submitted() {
			return s.answer()
		}
	case phaseFeedback:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		if s.runner.Phase() == session.PhaseFinished {
			return s, s.save()
		}
		return s, s.startChallenge()
	case phaseFailed:
		if (key == "r" || key == "R") && s.canRetry {
			return s, s.save()
		}
	}
	return s, nil
}

func (s *PlayScreen) save() tea.Cmd {
	s.phase = phaseSaving
	s.errMsg = ""
	finisher, runner := s.svc.Finisher, s.runner
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		sum, err := finisher.Finish(context.Background(), runner)
		return finishedMsg{Summary: sum, Err: err}
	})
}

func (s *PlayScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	log := s.svc.Log().With(zap.String("session_key", s.runner.Key()))
	var warning string
	if msg.Err != nil {
		var batchErr *store.BatchError
		if !errors.Is(msg.Err, session.ErrPartialUnlock) || !errors.As(msg.Err, &batchErr) {
			log.Error("saving game failed", zap.Error(msg.Err))
			s.fail(fmt.Sprintf("Could not save your stars: %v", msg.Err), true)
			return s, nil
		}
		log.Warn("some achievements were not saved", zap.Ints("failed_ids", batchErr.FailedIDs()))
		warning = fmt.Sprintf("%d achievement(s) could not be saved. They will be checked again next game.", len(batchErr.Failed))
	}

	next := results.New(s.svc, results.Params{
		Summary: msg.Summary,
		Answers: s.runner.Answers(),
		Warning: warning,
		Again: func() screen.Screen {
			return New(s.svc, s.subject, s.timed, WithClock(s.now))
		},
	})
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *PlayScreen) fail(msg string, retry bool) {
	s.phase = phaseFailed
	s.errMsg = msg
	s.canRetry = retry
}
