// Package challengegen asks an LLM for new quiz challenges and filters
// them through validators and duplicate detection before they are stored.
package challengegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/learnquest/internal/challenge"
)

// MaxCount caps how many challenges one request may ask for.
const MaxCount = 10

// Request describes the challenges to generate.
type Request struct {
	Type       challenge.Type
	Skill      string
	Difficulty int
	Count      int
}

// ErrInvalidRequest is returned for requests Generate cannot serve.
var ErrInvalidRequest = errors.New("invalid generation request")

// Validate checks the request ranges.
func (r Request) Validate() error {
	if _, err := challenge.ParseType(string(r.Type)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if r.Difficulty < 1 || r.Difficulty > 5 {
		return fmt.Errorf("%w: difficulty must be between 1 and 5", ErrInvalidRequest)
	}
	if r.Count < 1 || r.Count > MaxCount {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxCount)
	}
	return nil
}

// Rejection is a generated challenge that did not make it into the result.
type Rejection struct {
	Challenge challenge.Challenge
	Reason    error
}

// Result holds the accepted challenges (not yet stored) and the rejects.
type Result struct {
	Accepted []challenge.Challenge
	Rejected []Rejection
}

// Existing supplies the questions already stored for a type, used for
// duplicate detection. *challenge.Service satisfies it.
type Existing interface {
	ByType(ctx context.Context, t challenge.Type) ([]challenge.Challenge, error)
}
