package challengegen

import (
	"fmt"

	"github.com/abhisek/learnquest/internal/challenge"
)

// Validator checks a generated challenge before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	Name() string
	Validate(c *challenge.Challenge, req Request) *ValidationError
}

// ValidationError describes why a challenge was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator applies challenge.Validate plus length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(c *challenge.Challenge, _ Request) *ValidationError {
	if err := challenge.Validate(*c); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if len(c.Question) > 300 {
		return &ValidationError{Validator: v.Name(), Message: "question exceeds 300 characters"}
	}
	if len(c.Options) > 4 {
		return &ValidationError{Validator: v.Name(), Message: "more than 4 options"}
	}
	if len(c.Story) > 600 {
		return &ValidationError{Validator: v.Name(), Message: "story exceeds 600 characters"}
	}
	if c.Type == challenge.TypeStoryMode && c.Story == "" {
		return &ValidationError{Validator: v.Name(), Message: "story-mode challenge without a story"}
	}
	return nil
}
