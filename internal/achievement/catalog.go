package achievement

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/learnquest/internal/store"
)

// DefaultCatalog returns the built-in achievements, all locked.
func DefaultCatalog() []Achievement {
	return []Achievement{
		{ID: 1, Name: "Speed Demon", Description: "Complete a timed challenge in under 10 seconds", Icon: "⚡", Category: CategorySpeed, Condition: "time_under_10", BonusStars: 5},
		{ID: 2, Name: "Lightning Fast", Description: "Complete 3 timed challenges in under 15 seconds each", Icon: "🌩", Category: CategorySpeed, Condition: "streak_under_15", BonusStars: 10, Target: 3},
		{ID: 3, Name: "Time Master", Description: "Complete 10 timed challenges with bonus stars", Icon: "⏰", Category: CategorySpeed, Condition: "timed_completions", BonusStars: 15, Target: 10},
		{ID: 4, Name: "Flash Learner", Description: "Get perfect score in under 20 seconds", Icon: "🌟", Category: CategorySpeed, Condition: "perfect_under_20", BonusStars: 8},
		{ID: 5, Name: "Rocket Speed", Description: "Complete any challenge in under 5 seconds", Icon: "🚀", Category: CategorySpeed, Condition: "time_under_5", BonusStars: 12},
	}
}

// Catalog reads and seeds the achievement collection.
type Catalog struct {
	records store.Records[Achievement]
}

// NewCatalog creates a Catalog over the achievement records.
func NewCatalog(records store.Records[Achievement]) *Catalog {
	return &Catalog{records: records}
}

// Seed inserts the default achievements that are missing. Existing
// records, and their progress, are left alone. It returns the number of
// achievements added.
func (c *Catalog) Seed(ctx context.Context) (int, error) {
	existing, err := c.records.Fetch(ctx, store.Query{})
	if err != nil {
		return 0, fmt.Errorf("seed achievements: %w", err)
	}
	have := make(map[int]bool, len(existing))
	for _, a := range existing {
		have[a.ID] = true
	}

	var missing []Achievement
	for _, a := range DefaultCatalog() {
		if !have[a.ID] {
			missing = append(missing, a)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	added, err := c.records.Create(ctx, missing...)
	if err != nil {
		return len(added), fmt.Errorf("seed achievements: %w", err)
	}
	return len(added), nil
}

// All returns every achievement in id order.
func (c *Catalog) All(ctx context.Context) ([]Achievement, error) {
	out, err := c.records.Fetch(ctx, store.Query{OrderBy: []store.Order{{Field: store.IDField}}})
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return out, nil
}

// Unlocked returns the unlocked achievements in unlock order.
func (c *Catalog) Unlocked(ctx context.Context) ([]Achievement, error) {
	out, err := c.records.Fetch(ctx, store.Query{
		Where:   []store.Condition{store.Eq("unlocked", true)},
		OrderBy: []store.Order{{Field: store.IDField}},
	})
	if err != nil {
		return nil, fmt.Errorf("list unlocked achievements: %w", err)
	}
	// RFC 3339 text does not sort by time when fractional seconds differ
	// in length, so order on the parsed value.
	slices.SortStableFunc(out, func(a, b Achievement) int {
		return unlockTime(a).Compare(unlockTime(b))
	})
	return out, nil
}

func unlockTime(a Achievement) time.Time {
	if a.UnlockedAt == nil {
		return time.Time{}
	}
	return *a.UnlockedAt
}
