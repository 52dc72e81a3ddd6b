package session

import (
	"fmt"
	"time"

	"github.com/abhisek/learnquest/internal/rewards"
)

// DefaultBatchSize is the number of challenges per session.
const DefaultBatchSize = 5

// Config controls one session.
type Config struct {
	// BatchSize is the number of challenges N in the session.
	BatchSize int

	// Timed enables per-challenge timers and time bonuses.
	Timed bool

	// TimeLimit is the per-challenge limit used for bonuses and TimeUp.
	TimeLimit time.Duration
}

// DefaultConfig returns an untimed five-challenge session.
func DefaultConfig() Config {
	return Config{
		BatchSize: DefaultBatchSize,
		TimeLimit: rewards.DefaultMaxTime,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size %d", ErrInvalidCompletion, c.BatchSize)
	}
	if err := rewards.Validate(0, c.TimeLimit); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCompletion, err)
	}
	return nil
}
