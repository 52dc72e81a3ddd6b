// Package achievement evaluates finished sessions against the achievement
// catalog and persists unlocks.
package achievement

import "time"

// Category groups achievements for display.
type Category string

const (
	CategorySpeed Category = "speed"
)

// Achievement is a persisted achievement record. Only the Evaluator
// mutates Unlocked, Progress and UnlockedAt.
type Achievement struct {
	ID          int        `json:"Id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    Category   `json:"type"`
	Condition   string     `json:"condition"`
	BonusStars  int        `json:"bonusStars"`
	Unlocked    bool       `json:"unlocked"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target,omitempty"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// State is where an achievement sits in its lifecycle.
type State int

const (
	// StateLocked has no recorded progress.
	StateLocked State = iota
	// StateProgressing has partial progress toward its target.
	StateProgressing
	// StateUnlocked is terminal.
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateProgressing:
		return "progressing"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// State returns the achievement's lifecycle state.
func (a Achievement) State() State {
	switch {
	case a.Unlocked:
		return StateUnlocked
	case a.Progress > 0:
		return StateProgressing
	default:
		return StateLocked
	}
}

// EffectiveTarget is the count a counted condition must reach. Targets
// below one are treated as one.
func (a Achievement) EffectiveTarget() int {
	if a.Target < 1 {
		return 1
	}
	return a.Target
}

// Stats summarizes one finished session for evaluation.
type Stats struct {
	// AverageTime is the mean seconds per challenge; nil for untimed
	// sessions or when no times were recorded.
	AverageTime *float64
	// Accuracy is a percentage in [0, 100].
	Accuracy int
	IsTimed  bool
}

// transition applies one session to a locked or progressing achievement
// and reports whether anything changed. Unlocked achievements never change.
func (a *Achievement) transition(c Condition, s Stats, now time.Time) (changed bool) {
	if a.State() == StateUnlocked {
		return false
	}

	passed := c.passes(s)
	if !c.counted() {
		if passed {
			a.unlock(now)
			return true
		}
		return false
	}

	if !passed {
		// Only streaks reset on a miss; completions just don't count.
		if c.Kind == KindStreakUnder && a.Progress != 0 {
			a.Progress = 0
			return true
		}
		return false
	}

	a.Progress++
	if a.Progress >= a.EffectiveTarget() {
		a.unlock(now)
	}
	return true
}

func (a *Achievement) unlock(now time.Time) {
	a.Unlocked = true
	t := now.UTC()
	a.UnlockedAt = &t
	if a.Target > 0 && a.Progress > a.Target {
		a.Progress = a.Target
	}
}
