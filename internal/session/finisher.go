package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/store"
)

// ErrPartialUnlock marks a Finish that completed every step but could
// write only some achievement changes. The error also wraps the
// *store.BatchError naming the failed items. Any other Finish error
// means the session is not fully persisted and Finish should be retried.
var ErrPartialUnlock = errors.New("some achievement changes were not saved")

// finishSteps records which persistence steps already succeeded for a
// runner, so a retried Finish never credits twice.
type finishSteps struct {
	saved         bool
	starsCredited bool
	checked       bool
	bonusCredited bool
	statsRecorded bool

	unlocked []achievement.Achievement
	checkErr error
}

// Summary is what a finished and persisted session produced.
type Summary struct {
	Result Result
	// Unlocked holds only achievements whose unlock was written.
	Unlocked []achievement.Achievement
	// AchievementBonus is the sum of Unlocked bonus stars.
	AchievementBonus int
	// TotalStars is the player's star total after all credits.
	TotalStars int
}

// Finisher persists finished sessions. Steps run strictly in order:
// session record, star credit, achievement check, achievement bonus
// credit, achievement stats. The last three run for timed sessions only.
type Finisher struct {
	sessions  store.Records[Result]
	progress  *progress.Service
	evaluator *achievement.Evaluator
	logger    *zap.Logger
}

// NewFinisher wires the persistence collaborators.
func NewFinisher(sessions store.Records[Result], prog *progress.Service, eval *achievement.Evaluator, logger *zap.Logger) *Finisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finisher{sessions: sessions, progress: prog, evaluator: eval, logger: logger}
}

// Finish persists r. It can be retried with the same runner after an
// error; completed steps are skipped. A partial achievement write still
// completes the pipeline with the written unlocks and then returns an
// ErrPartialUnlock error alongside the summary.
func (f *Finisher) Finish(ctx context.Context, r *Runner) (Summary, error) {
	if _, err := r.Result(); err != nil {
		return Summary{}, err
	}
	st := &r.persisted
	log := f.logger.With(zap.String("session_key", r.key))

	if !st.saved {
		saved, err := f.save(ctx, r.result)
		if err != nil {
			return Summary{}, err
		}
		r.result = saved
		st.saved = true
		log.Info("session saved", zap.Int("id", saved.ID), zap.Int("stars", saved.StarsEarned), zap.Int("accuracy", saved.Accuracy))
	}
	res := r.result

	if !st.starsCredited {
		if _, err := f.progress.AddStars(ctx, res.StarsEarned); err != nil {
			return Summary{Result: res}, fmt.Errorf("credit session stars: %w", err)
		}
		st.starsCredited = true
	}

	sum := Summary{Result: res}
	if res.IsTimed {
		if !st.checked {
			unlocked, err := f.evaluator.Check(ctx, res.AchievementStats())
			var batchErr *store.BatchError
			switch {
			case err == nil:
			case errors.As(err, &batchErr) && batchErr.Written() > 0:
				// Some changes landed; re-running would move counters twice.
				st.checkErr = fmt.Errorf("%w: %w", ErrPartialUnlock, err)
				log.Warn("some achievement writes failed", zap.Error(err))
			default:
				return sum, fmt.Errorf("check achievements: %w", err)
			}
			st.unlocked = unlocked
			st.checked = true
		}
		sum.Unlocked = st.unlocked
		for _, a := range st.unlocked {
			sum.AchievementBonus += a.BonusStars
		}

		if sum.AchievementBonus > 0 && !st.bonusCredited {
			if _, err := f.progress.AddStars(ctx, sum.AchievementBonus); err != nil {
				return sum, fmt.Errorf("credit achievement bonus: %w", err)
			}
			st.bonusCredited = true
		}

		if !st.statsRecorded {
			_, err := f.progress.RecordTimedSession(ctx, progress.TimedSession{
				Challenges:           res.ChallengesCompleted,
				Fastest:              r.Fastest(),
				BonusStars:           res.BonusStars + sum.AchievementBonus,
				AchievementsUnlocked: len(sum.Unlocked),
			})
			if err != nil {
				return sum, fmt.Errorf("record achievement stats: %w", err)
			}
			st.statsRecorded = true
		}
	}

	p, err := f.progress.Current(ctx)
	if err != nil {
		return sum, err
	}
	sum.TotalStars = p.TotalStars
	return sum, st.checkErr
}

// save creates the session record unless one with the same key exists.
func (f *Finisher) save(ctx context.Context, res Result) (Result, error) {
	existing, err := f.sessions.Fetch(ctx, store.Query{Where: []store.Condition{store.Eq("key", res.Key)}, Limit: 1})
	if err != nil {
		return Result{}, fmt.Errorf("save session: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	created, err := f.sessions.Create(ctx, res)
	if err != nil {
		return Result{}, fmt.Errorf("save session: %w", err)
	}
	return created[0], nil
}
