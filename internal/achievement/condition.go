package achievement

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the family a condition belongs to.
type Kind string

const (
	// KindTimeUnder unlocks when the session average is below N seconds.
	KindTimeUnder Kind = "time_under"
	// KindPerfectUnder also requires 100% accuracy.
	KindPerfectUnder Kind = "perfect_under"
	// KindStreakUnder counts consecutive sessions averaging below N seconds.
	KindStreakUnder Kind = "streak_under"
	// KindTimedCompletions counts completed timed sessions.
	KindTimedCompletions Kind = "timed_completions"
)

// Condition is a parsed condition string such as "streak_under_15".
type Condition struct {
	Kind      Kind
	Threshold float64 // seconds; unused by KindTimedCompletions
}

// ParseCondition parses the condition strings stored on achievements.
func ParseCondition(s string) (Condition, error) {
	if s == string(KindTimedCompletions) {
		return Condition{Kind: KindTimedCompletions}, nil
	}
	for _, k := range []Kind{KindTimeUnder, KindPerfectUnder, KindStreakUnder} {
		prefix := string(k) + "_"
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimPrefix(s, prefix), 64)
		if err != nil || n <= 0 {
			return Condition{}, fmt.Errorf("condition %q: bad threshold", s)
		}
		return Condition{Kind: k, Threshold: n}, nil
	}
	return Condition{}, fmt.Errorf("unknown condition %q", s)
}

func (c Condition) String() string {
	if c.Kind == KindTimedCompletions {
		return string(c.Kind)
	}
	return fmt.Sprintf("%s_%s", c.Kind, strconv.FormatFloat(c.Threshold, 'f', -1, 64))
}

// counted reports whether the kind accumulates progress toward a target.
func (c Condition) counted() bool {
	return c.Kind == KindStreakUnder || c.Kind == KindTimedCompletions
}

// fastAverage reports whether the session average is known and below the
// threshold.
func (c Condition) fastAverage(s Stats) bool {
	return s.AverageTime != nil && *s.AverageTime < c.Threshold
}

// passes reports whether one session satisfies the condition.
func (c Condition) passes(s Stats) bool {
	switch c.Kind {
	case KindTimeUnder, KindStreakUnder:
		return c.fastAverage(s)
	case KindPerfectUnder:
		return s.Accuracy == 100 && c.fastAverage(s)
	case KindTimedCompletions:
		return s.IsTimed
	}
	return false
}
