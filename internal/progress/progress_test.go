package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	recs := store.NewCollection[Progress](store.NewMemory(), store.Progress)
	return NewService(recs, WithClock(c.now)), c
}

func TestCurrentCreatesDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, 1, p.MathLevel)
	assert.Equal(t, 1, p.ReadingLevel)
	assert.Zero(t, p.TotalStars)

	again, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID, "no second record")
}

func TestAddStars(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddStars(ctx, 30)
	require.NoError(t, err)
	c.advance(time.Hour)
	p, err := svc.AddStars(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 35, p.TotalStars)
	assert.True(t, p.LastActive.Equal(c.t))

	_, err = svc.AddStars(ctx, -1)
	assert.ErrorIs(t, err, ErrNegativeStars)
}

func TestAddStarsConcurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddStars(ctx, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, p.TotalStars)
}

func TestDailyStreak(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddStars(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)

	c.advance(2 * time.Hour)
	p, _ = svc.AddStars(ctx, 1)
	assert.Equal(t, 1, p.Streak, "same day")

	c.advance(24 * time.Hour)
	p, _ = svc.AddStars(ctx, 1)
	assert.Equal(t, 2, p.Streak, "next day")

	c.advance(72 * time.Hour)
	p, _ = svc.AddStars(ctx, 1)
	assert.Equal(t, 1, p.Streak, "gap resets")
}

func TestUpdateLevel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.UpdateLevel(ctx, challenge.TypeMath, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.MathLevel)

	p, err = svc.UpdateLevel(ctx, challenge.TypeStoryMode, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.ReadingLevel)

	_, err = svc.UpdateLevel(ctx, "art", 2)
	assert.ErrorIs(t, err, ErrInvalidLevel)
	_, err = svc.UpdateLevel(ctx, challenge.TypeMath, 0)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestAddMasteredSkillDedups(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddMasteredSkill(ctx, "addition")
	require.NoError(t, err)
	_, err = svc.AddMasteredSkill(ctx, "rhyming")
	require.NoError(t, err)
	p, err := svc.AddMasteredSkill(ctx, "addition")
	require.NoError(t, err)
	assert.Equal(t, []string{"addition", "rhyming"}, p.SkillsMastered)
}

func TestRecordTimedSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	st, err := svc.AchievementStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, st.FastestTime)

	fast := 3.5
	slow := 8.0
	_, err = svc.RecordTimedSession(ctx, TimedSession{Challenges: 5, Fastest: &slow, BonusStars: 7, AchievementsUnlocked: 1})
	require.NoError(t, err)
	st, err = svc.RecordTimedSession(ctx, TimedSession{Challenges: 5, Fastest: &fast, BonusStars: 15, AchievementsUnlocked: 2})
	require.NoError(t, err)
	st2, err := svc.RecordTimedSession(ctx, TimedSession{Challenges: 5, Fastest: &slow})
	require.NoError(t, err)

	assert.Equal(t, 10, st.TimedChallengesCompleted)
	assert.Equal(t, 22, st.TotalBonusStarsEarned)
	assert.Equal(t, 3, st.AchievementsUnlocked)
	require.NotNil(t, st2.FastestTime)
	assert.Equal(t, 3.5, *st2.FastestTime)
	assert.Equal(t, 15, st2.TimedChallengesCompleted)
}
