// Package progress tracks the player's cumulative stars, levels and
// achievement statistics.
package progress

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/store"
)

// Progress is the single player progress record.
type Progress struct {
	ID             int              `json:"Id"`
	TotalStars     int              `json:"totalStars"`
	MathLevel      int              `json:"mathLevel"`
	ReadingLevel   int              `json:"readingLevel"`
	Streak         int              `json:"streak"` // consecutive active days
	SkillsMastered []string         `json:"skillsMastered"`
	LastActive     time.Time        `json:"lastActive"`
	Stats          AchievementStats `json:"achievementStats"`
}

// AchievementStats aggregates timed play.
type AchievementStats struct {
	TimedChallengesCompleted int      `json:"timedChallengesCompleted"`
	FastestTime              *float64 `json:"fastestTime"` // seconds
	TotalBonusStarsEarned    int      `json:"totalBonusStarsEarned"`
	AchievementsUnlocked     int      `json:"achievementsUnlocked"`
}

// TimedSession is what one finished timed session adds to the stats.
type TimedSession struct {
	Challenges           int
	Fastest              *float64 // seconds; nil when no times were recorded
	BonusStars           int
	AchievementsUnlocked int
}

var (
	// ErrNegativeStars is returned for star credits below zero.
	ErrNegativeStars = errors.New("star credit must not be negative")
	// ErrInvalidLevel is returned for unknown subjects or levels below one.
	ErrInvalidLevel = errors.New("invalid level")
)

// Service serializes every read-modify-write of the progress record.
type Service struct {
	records store.Records[Progress]
	now     func() time.Time

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a progress service over records.
func NewService(records store.Records[Progress], opts ...Option) *Service {
	s := &Service{records: records, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns the progress record, creating the default one if none
// exists yet.
func (s *Service) Current(ctx context.Context) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

func (s *Service) current(ctx context.Context) (Progress, error) {
	found, err := s.records.Fetch(ctx, store.Query{OrderBy: []store.Order{{Field: store.IDField}}, Limit: 1})
	if err != nil {
		return Progress{}, fmt.Errorf("load progress: %w", err)
	}
	if len(found) > 0 {
		return found[0], nil
	}

	created, err := s.records.Create(ctx, Progress{
		MathLevel:      1,
		ReadingLevel:   1,
		SkillsMastered: []string{},
		LastActive:     s.now().UTC(),
	})
	if err != nil {
		return Progress{}, fmt.Errorf("create progress: %w", err)
	}
	return created[0], nil
}

// mutate applies fn to the current record and writes it back.
func (s *Service) mutate(ctx context.Context, fn func(p *Progress) error) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.current(ctx)
	if err != nil {
		return Progress{}, err
	}
	if err := fn(&p); err != nil {
		return Progress{}, err
	}
	updated, err := s.records.Update(ctx, p)
	if err != nil {
		return Progress{}, fmt.Errorf("save progress: %w", err)
	}
	return updated[0], nil
}

// touch marks the player active now and maintains the daily streak.
func (s *Service) touch(p *Progress) {
	now := s.now().UTC()
	last := p.LastActive.UTC()
	today := now.Truncate(24 * time.Hour)
	lastDay := last.Truncate(24 * time.Hour)

	switch {
	case p.Streak == 0 || last.IsZero():
		p.Streak = 1
	case today.Equal(lastDay):
	case today.Sub(lastDay) == 24*time.Hour:
		p.Streak++
	default:
		p.Streak = 1
	}
	p.LastActive = now
}

// AddStars credits n stars. TotalStars never decreases.
func (s *Service) AddStars(ctx context.Context, n int) (Progress, error) {
	if n < 0 {
		return Progress{}, fmt.Errorf("add %d stars: %w", n, ErrNegativeStars)
	}
	return s.mutate(ctx, func(p *Progress) error {
		p.TotalStars += n
		s.touch(p)
		return nil
	})
}

// UpdateLevel sets the level for a subject.
func (s *Service) UpdateLevel(ctx context.Context, subject challenge.Type, level int) (Progress, error) {
	if level < 1 {
		return Progress{}, fmt.Errorf("%w: level %d", ErrInvalidLevel, level)
	}
	return s.mutate(ctx, func(p *Progress) error {
		switch subject.Subject() {
		case challenge.TypeMath:
			p.MathLevel = level
		case challenge.TypeReading:
			p.ReadingLevel = level
		default:
			return fmt.Errorf("%w: unknown subject %q", ErrInvalidLevel, subject)
		}
		s.touch(p)
		return nil
	})
}

// AddMasteredSkill records a mastered skill once.
func (s *Service) AddMasteredSkill(ctx context.Context, skill string) (Progress, error) {
	if skill == "" {
		return Progress{}, fmt.Errorf("add mastered skill: empty skill")
	}
	return s.mutate(ctx, func(p *Progress) error {
		if !slices.Contains(p.SkillsMastered, skill) {
			p.SkillsMastered = append(p.SkillsMastered, skill)
			s.touch(p)
		}
		return nil
	})
}

// AchievementStats returns the timed-play statistics.
func (s *Service) AchievementStats(ctx context.Context) (AchievementStats, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return AchievementStats{}, err
	}
	return p.Stats, nil
}

// RecordTimedSession folds one timed session into the statistics.
func (s *Service) RecordTimedSession(ctx context.Context, ts TimedSession) (AchievementStats, error) {
	p, err := s.mutate(ctx, func(p *Progress) error {
		st := &p.Stats
		st.TimedChallengesCompleted += ts.Challenges
		st.TotalBonusStarsEarned += ts.BonusStars
		st.AchievementsUnlocked += ts.AchievementsUnlocked
		if ts.Fastest != nil && (st.FastestTime == nil || *ts.Fastest < *st.FastestTime) {
			f := *ts.Fastest
			st.FastestTime = &f
		}
		return nil
	})
	if err != nil {
		return AchievementStats{}, err
	}
	return p.Stats, nil
}
