package session

import (
	"context"
	"fmt"

	"github.com/abhisek/learnquest/internal/store"
)

// DefaultRecent is how many sessions Recent returns for n <= 0.
const DefaultRecent = 5

// History reads persisted sessions.
type History struct {
	records store.Records[Result]
}

// NewHistory creates a History over the session records.
func NewHistory(records store.Records[Result]) *History {
	return &History{records: records}
}

// Recent returns the n newest sessions, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]Result, error) {
	if n <= 0 {
		n = DefaultRecent
	}
	out, err := h.records.Fetch(ctx, store.Query{
		OrderBy: []store.Order{{Field: store.IDField, Desc: true}},
		Limit:   n,
	})
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	return out, nil
}

// All returns every session, oldest first.
func (h *History) All(ctx context.Context) ([]Result, error) {
	out, err := h.records.Fetch(ctx, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// ByID returns one session or an error wrapping store.ErrNotFound.
func (h *History) ByID(ctx context.Context, id int) (Result, error) {
	r, err := h.records.Get(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("get session: %w", err)
	}
	return r, nil
}

// BySubject returns the sessions played for one subject, newest first.
func (h *History) BySubject(ctx context.Context, subject string) ([]Result, error) {
	out, err := h.records.Fetch(ctx, store.Query{
		Where:   []store.Condition{store.Eq("subject", subject)},
		OrderBy: []store.Order{{Field: store.IDField, Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("sessions for %s: %w", subject, err)
	}
	return out, nil
}
