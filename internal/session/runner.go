// Package session drives a batch of challenges from first answer to the
// persisted session record.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/rewards"
)

var (
	// ErrInvalidCompletion is returned for malformed completions and configs.
	ErrInvalidCompletion = errors.New("invalid completion")
	// ErrSessionFinished is returned when completing after the last challenge
	// or after Abandon.
	ErrSessionFinished = errors.New("session already finished")
	// ErrNotFinished is returned when asking for a result too early.
	ErrNotFinished = errors.New("session not finished")
)

// Phase is where a runner sits in its lifecycle.
type Phase int

const (
	PhaseActive    Phase = iota // Serving challenges
	PhaseFinished               // Result built, ready to persist
	PhaseAbandoned              // Dropped by the player; nothing is saved
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Completion is the outcome of one challenge.
type Completion struct {
	// Stars is the base star award (see rewards.BaseStars).
	Stars   int
	Correct bool
	// Elapsed is the time spent; nil when not measured.
	Elapsed *time.Duration
}

// Answer records one completed challenge for the results screen.
type Answer struct {
	Challenge challenge.Challenge
	Choice    string
	Outcome   rewards.Outcome
	Stars     int
	Bonus     int
	Elapsed   *time.Duration
}

// Step reports what one completion did.
type Step struct {
	// Index of the challenge just completed.
	Index int
	// Stars is the base award plus Bonus.
	Stars int
	Bonus int
	// Done is set when this completion finished the batch.
	Done bool
}

// Totals is a running snapshot of the session.
type Totals struct {
	Completed int
	Stars     int
	Bonus     int
	Correct   int
}

// Runner drives one batch of N challenges. It is not safe for concurrent
// use; the play screen owns it.
type Runner struct {
	cfg        Config
	subject    challenge.Type
	challenges []challenge.Challenge
	key        string
	now        func() time.Time

	start   time.Time
	index   int
	stars   int
	bonus   int
	correct int
	times   []time.Duration
	answers []Answer
	phase   Phase
	result  Result

	// persisted tracks Finisher steps already done for this runner.
	persisted finishSteps
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithKey sets the session key instead of a random UUID.
func WithKey(key string) Option {
	return func(r *Runner) { r.key = key }
}

// NewRunner starts a session over challenges. The batch is the first
// cfg.BatchSize challenges, or all of them when fewer are available.
func NewRunner(cfg Config, subject challenge.Type, challenges []challenge.Challenge, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidCompletion)
	}
	n := min(cfg.BatchSize, len(challenges))

	r := &Runner{
		cfg:        cfg,
		subject:    subject,
		challenges: append([]challenge.Challenge(nil), challenges[:n]...),
		now:        time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.key == "" {
		r.key = uuid.NewString()
	}
	r.start = r.now()
	return r, nil
}

// Key returns the session's idempotency key.
func (r *Runner) Key() string { return r.key }

// Config returns the session config.
func (r *Runner) Config() Config { return r.cfg }

// Subject returns the session subject.
func (r *Runner) Subject() challenge.Type { return r.subject }

// Len returns the batch size N.
func (r *Runner) Len() int { return len(r.challenges) }

// Index returns the zero-based index of the current challenge.
func (r *Runner) Index() int { return r.index }

// Phase returns the lifecycle phase.
func (r *Runner) Phase() Phase { return r.phase }

// Current returns the challenge being played. ok is false once the
// session is no longer active.
func (r *Runner) Current() (c challenge.Challenge, ok bool) {
	if r.phase != PhaseActive {
		return challenge.Challenge{}, false
	}
	return r.challenges[r.index], true
}

// Totals returns the running aggregates.
func (r *Runner) Totals() Totals {
	return Totals{Completed: len(r.answers), Stars: r.stars, Bonus: r.bonus, Correct: r.correct}
}

// Answers returns the completed challenges in order.
func (r *Runner) Answers() []Answer {
	return append([]Answer(nil), r.answers...)
}

// Complete records the current challenge's outcome. In timed mode a
// measured Elapsed earns a time bonus and counts toward the average. The
// last completion folds into every aggregate before the result is built.
func (r *Runner) Complete(c Completion) (Step, error) {
	return r.complete(c, "", outcomeOf(c))
}

func outcomeOf(c Completion) rewards.Outcome {
	switch {
	case c.Correct:
		return rewards.Correct
	case c.Stars > 0:
		return rewards.Wrong
	default:
		return rewards.Unanswered
	}
}

func (r *Runner) complete(c Completion, choice string, outcome rewards.Outcome) (Step, error) {
	if r.phase != PhaseActive {
		return Step{}, ErrSessionFinished
	}
	if c.Stars < 0 {
		return Step{}, fmt.Errorf("%w: negative stars %d", ErrInvalidCompletion, c.Stars)
	}
	if c.Elapsed != nil {
		if err := rewards.Validate(*c.Elapsed, r.cfg.TimeLimit); err != nil {
			return Step{}, fmt.Errorf("%w: %w", ErrInvalidCompletion, err)
		}
	}

	bonus := 0
	if r.cfg.Timed && c.Elapsed != nil {
		bonus = rewards.BonusStars(*c.Elapsed, r.cfg.TimeLimit)
		r.times = append(r.times, *c.Elapsed)
	}
	r.stars += c.Stars + bonus
	r.bonus += bonus
	if c.Correct {
		r.correct++
	}
	r.answers = append(r.answers, Answer{
		Challenge: r.challenges[r.index],
		Choice:    choice,
		Outcome:   outcome,
		Stars:     c.Stars,
		Bonus:     bonus,
		Elapsed:   c.Elapsed,
	})

	step := Step{Index: r.index, Stars: c.Stars + bonus, Bonus: bonus}
	if r.index < len(r.challenges)-1 {
		r.index++
		return step, nil
	}

	r.finalize()
	step.Done = true
	return step, nil
}

// Answer checks choice against the current challenge, applies the base
// star policy and completes it. An empty choice counts as unanswered.
func (r *Runner) Answer(choice string, elapsed *time.Duration) (Step, error) {
	cur, ok := r.Current()
	if !ok {
		return Step{}, ErrSessionFinished
	}
	correct := choice != "" && cur.Check(choice)
	outcome := rewards.OutcomeOf(choice != "", correct)
	return r.complete(Completion{
		Stars:   rewards.BaseStars(outcome),
		Correct: correct,
		Elapsed: elapsed,
	}, choice, outcome)
}

// TimeUp records the current challenge as unanswered with the full time
// limit spent.
func (r *Runner) TimeUp() (Step, error) {
	limit := r.cfg.TimeLimit
	return r.complete(Completion{Elapsed: &limit}, "", rewards.Unanswered)
}

// Abandon drops the session. Nothing from an abandoned session is
// persisted.
func (r *Runner) Abandon() {
	if r.phase == PhaseActive {
		r.phase = PhaseAbandoned
	}
}

// Result returns the finished session's record.
func (r *Runner) Result() (Result, error) {
	if r.phase != PhaseFinished {
		return Result{}, ErrNotFinished
	}
	return r.result, nil
}

// Fastest returns the quickest measured challenge in seconds.
func (r *Runner) Fastest() *float64 {
	return fastestSeconds(r.times)
}

func (r *Runner) finalize() {
	n := len(r.challenges)
	end := r.now()

	res := Result{
		Key:                 r.key,
		Subject:             r.subject,
		ChallengesCompleted: n,
		StarsEarned:         r.stars,
		Accuracy:            accuracy(r.correct, n),
		DurationSeconds:     int(end.Sub(r.start) / time.Second),
		IsTimed:             r.cfg.Timed,
		Timestamp:           end.UTC(),
	}
	if r.cfg.Timed {
		res.AverageTimeSeconds = averageSeconds(r.times)
		res.BonusStars = r.bonus
	}
	r.result = res
	r.phase = PhaseFinished
}
