// Package llm sends single-turn structured prompts to a hosted model and
// returns schema-checked JSON.
package llm

import (
	"context"
	"encoding/json"
)

// Provider answers one prompt with one JSON document.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model the provider calls.
	ModelID() string
}

// Request is one structured generation call.
type Request struct {
	// Purpose labels the call in logs, e.g. "challenge-gen".
	Purpose string

	System string
	Prompt string

	// Schema, when set, asks for JSON matching it; the reply is checked
	// before it is returned.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the vendor default
}

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case; vendors use it as the tool or format name.
	Name        string
	Description string
	Definition  map[string]any
}

// Stop says why the model stopped writing.
type Stop string

const (
	StopEnd    Stop = "end"
	StopLength Stop = "max_tokens"
)

// Response is a checked model reply.
type Response struct {
	Content      json.RawMessage
	Model        string // model that served the call
	Stop         Stop
	InputTokens  int
	OutputTokens int
}
