// Package rewards converts answers and timings into stars.
package rewards

import (
	"errors"
	"fmt"
	"time"
)

// DefaultMaxTime is the per-challenge time limit in timed mode.
const DefaultMaxTime = 30 * time.Second

// MaxBonusStars is the largest time bonus a single challenge can earn.
const MaxBonusStars = 3

// ErrInvalidTiming is returned for negative completion times or
// non-positive time limits.
var ErrInvalidTiming = errors.New("invalid timing")

// Validate checks that completion and maxTime can be scored.
func Validate(completion, maxTime time.Duration) error {
	if completion < 0 {
		return fmt.Errorf("%w: completion time %v is negative", ErrInvalidTiming, completion)
	}
	if maxTime <= 0 {
		return fmt.Errorf("%w: time limit %v must be positive", ErrInvalidTiming, maxTime)
	}
	return nil
}

// BonusStars returns the time bonus for finishing a challenge in
// completion out of maxTime. Tier boundaries belong to the higher tier.
func BonusStars(completion, maxTime time.Duration) int {
	if maxTime <= 0 || completion >= maxTime {
		return 0
	}
	ratio := float64(completion) / float64(maxTime)
	switch {
	case ratio <= 0.25:
		return 3
	case ratio <= 0.50:
		return 2
	case ratio <= 0.75:
		return 1
	default:
		return 0
	}
}

// Tier names the speed band a time bonus belongs to.
type Tier string

const (
	TierLightning Tier = "lightning"
	TierQuick     Tier = "quick"
	TierSteady    Tier = "steady"
	TierNone      Tier = "none"
)

// TierFor returns the speed band for a bonus star count.
func TierFor(bonus int) Tier {
	switch {
	case bonus >= 3:
		return TierLightning
	case bonus == 2:
		return TierQuick
	case bonus == 1:
		return TierSteady
	default:
		return TierNone
	}
}

// DisplayName returns a kid-friendly label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierLightning:
		return "Lightning fast!"
	case TierQuick:
		return "Super quick!"
	case TierSteady:
		return "Nice pace!"
	default:
		return ""
	}
}

// Icon returns the display icon for the tier.
func (t Tier) Icon() string {
	switch t {
	case TierLightning:
		return "⚡"
	case TierQuick:
		return "🚀"
	case TierSteady:
		return "⏱"
	default:
		return ""
	}
}
