package screen

import (
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/session"
)

// Services are the domain collaborators screens read from and write to.
type Services struct {
	Challenges   *challenge.Service
	Progress     *progress.Service
	Achievements *achievement.Catalog
	Finisher     *session.Finisher
	History      *session.History

	// Session is the base session config; the timed flag is chosen per
	// game.
	Session session.Config
	Logger  *zap.Logger
}

// Log returns the logger, or a no-op logger when none is set.
func (s *Services) Log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
