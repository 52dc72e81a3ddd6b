package achievement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/store"
)

// Evaluator checks finished sessions against persisted achievements.
type Evaluator struct {
	records store.Records[Achievement]
	logger  *zap.Logger
	now     func() time.Time
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the evaluator's logger.
func WithLogger(l *zap.Logger) EvaluatorOption {
	return func(e *Evaluator) { e.logger = l }
}

// WithClock overrides the unlock timestamp source.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator creates an Evaluator over the achievement records.
func NewEvaluator(records store.Records[Achievement], opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{records: records, logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Check evaluates one finished session and returns the achievements it
// unlocked. Every changed achievement (unlocks and counter moves) is
// written in a single batch update.
//
// Counters are not idempotent: call Check exactly once per session. When
// part of the batch fails the returned error wraps a *store.BatchError and
// the failed achievements are left out of the returned list.
func (e *Evaluator) Check(ctx context.Context, s Stats) ([]Achievement, error) {
	all, err := e.records.Fetch(ctx, store.Query{OrderBy: []store.Order{{Field: store.IDField}}})
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	now := e.now()
	var (
		changed  []Achievement
		unlocked = map[int]bool{}
	)
	for _, a := range all {
		if a.State() == StateUnlocked {
			continue
		}
		cond, err := ParseCondition(a.Condition)
		if err != nil {
			e.logger.Warn("skipping achievement", zap.Int("id", a.ID), zap.String("condition", a.Condition), zap.Error(err))
			continue
		}
		if !a.transition(cond, s, now) {
			continue
		}
		changed = append(changed, a)
		if a.State() == StateUnlocked {
			unlocked[a.ID] = true
		}
	}

	if len(changed) == 0 {
		return nil, nil
	}

	written, err := e.records.Update(ctx, changed...)
	var batchErr *store.BatchError
	if err != nil && !errors.As(err, &batchErr) {
		return nil, fmt.Errorf("save achievements: %w", err)
	}

	var out []Achievement
	for _, a := range written {
		if unlocked[a.ID] && a.Unlocked {
			out = append(out, a)
		}
	}

	if batchErr != nil {
		e.logger.Error("achievement batch partially failed",
			zap.Ints("failed_ids", batchErr.FailedIDs()),
			zap.Int("written", len(written)),
		)
		return out, fmt.Errorf("save achievements: %w", batchErr)
	}

	for _, a := range out {
		e.logger.Info("achievement unlocked", zap.Int("id", a.ID), zap.String("name", a.Name), zap.Int("bonus_stars", a.BonusStars))
	}
	return out, nil
}
