package play

import (
	"time"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/session"
)

// batchLoadedMsg carries the challenges fetched for a new game.
type batchLoadedMsg struct {
	Challenges []challenge.Challenge
	Err        error
}

// tickMsg drives the per-challenge countdown. Seq ties a tick to the
// challenge it was scheduled for so stale ticks are dropped.
type tickMsg struct {
	Seq int
	At  time.Time
}

// finishedMsg reports the outcome of persisting a finished game.
type finishedMsg struct {
	Summary session.Summary
	Err     error
}
