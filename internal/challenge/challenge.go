// Package challenge holds quiz challenges and the service that serves them.
package challenge

import (
	"errors"
	"fmt"
	"strings"
)

// Type is a subject or a reading sub-mode.
type Type string

const (
	TypeMath            Type = "math"
	TypeReading         Type = "reading"
	TypePhonicsMatching Type = "reading-phonics-matching"
	TypePhonicsRhyming  Type = "reading-phonics-rhyming"
	TypeWordBuilding    Type = "reading-word-building"
	TypeStoryMode       Type = "reading-story-mode"
)

// AllTypes returns every challenge type in display order.
func AllTypes() []Type {
	return []Type{TypeMath, TypeReading, TypePhonicsMatching, TypePhonicsRhyming, TypeWordBuilding, TypeStoryMode}
}

// ParseType resolves a type name, accepting the short reading sub-mode
// names ("phonics-matching", "story-mode", ...).
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTypes() {
		if string(t) == s || string(t) == "reading-"+s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidChallenge, s)
}

// Subject returns the subject a type belongs to.
func (t Type) Subject() Type {
	if strings.HasPrefix(string(t), "reading") {
		return TypeReading
	}
	return t
}

// DisplayName returns a human-readable label for the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeMath:
		return "Math"
	case TypeReading:
		return "Reading"
	case TypePhonicsMatching:
		return "Phonics Matching"
	case TypePhonicsRhyming:
		return "Rhyming"
	case TypeWordBuilding:
		return "Word Building"
	case TypeStoryMode:
		return "Story Mode"
	default:
		return string(t)
	}
}

// Challenge is a single multiple-choice question. Challenges are never
// mutated once fetched.
type Challenge struct {
	ID            int      `json:"Id"`
	Type          Type     `json:"type"`
	Skill         string   `json:"skill"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Difficulty    int      `json:"difficulty"`

	// Optional presentation extras used by some reading modes.
	Image      string `json:"image,omitempty"`
	Sound      string `json:"sound,omitempty"`
	Story      string `json:"story,omitempty"`
	TargetWord string `json:"targetWord,omitempty"`
}

// Check reports whether answer is the correct one. Comparison ignores
// surrounding whitespace and case.
func (c Challenge) Check(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(c.CorrectAnswer))
}

// ErrInvalidChallenge is wrapped by every challenge validation failure.
var ErrInvalidChallenge = errors.New("invalid challenge")

// ValidationError describes why a challenge failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidChallenge, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidChallenge }

// Validate checks required fields and that the correct answer is one of
// the options.
func Validate(c Challenge) error {
	if strings.TrimSpace(c.Question) == "" {
		return &ValidationError{Field: "question", Message: "is empty"}
	}
	if _, err := ParseType(string(c.Type)); err != nil {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", c.Type)}
	}
	if c.Difficulty < 1 || c.Difficulty > 5 {
		return &ValidationError{Field: "difficulty", Message: "must be between 1 and 5"}
	}
	if len(c.Options) < 2 {
		return &ValidationError{Field: "options", Message: "needs at least 2 options"}
	}
	seen := make(map[string]bool, len(c.Options))
	for _, o := range c.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return &ValidationError{Field: "options", Message: "contains an empty option"}
		}
		if seen[key] {
			return &ValidationError{Field: "options", Message: fmt.Sprintf("duplicate option %q", o)}
		}
		seen[key] = true
	}
	if !seen[strings.ToLower(strings.TrimSpace(c.CorrectAnswer))] {
		return &ValidationError{Field: "correctAnswer", Message: fmt.Sprintf("%q is not one of the options", c.CorrectAnswer)}
	}
	return nil
}
