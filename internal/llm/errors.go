package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport and server failures.
	ErrUnavailable = errors.New("llm provider unavailable")
	// ErrRateLimited wraps HTTP 429 replies.
	ErrRateLimited = errors.New("llm rate limited")
	// ErrTruncated is returned when the reply hit MaxTokens before the
	// JSON was complete.
	ErrTruncated = errors.New("llm reply truncated")
)

// ResponseError reports a reply that does not match the requested schema.
type ResponseError struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *ResponseError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("unusable llm reply: %v", e.Err)
	}
	return fmt.Sprintf("llm reply does not match %s: %v", e.Schema, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// callError classifies a failed vendor call by its HTTP status; 0 means
// the status is unknown.
func callError(vendor string, status int, err error) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: %w", vendor, ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w: %w", vendor, ErrUnavailable, err)
}
