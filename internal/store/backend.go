package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Collection names shared by every backend.
const (
	Challenges   = "challenges"
	Achievements = "achievements"
	Sessions     = "sessions"
	Progress     = "progress"
)

// IDField is the JSON field carrying a record's numeric identifier.
const IDField = "Id"

// Collections returns all known collection names.
func Collections() []string {
	return []string{Challenges, Achievements, Sessions, Progress}
}

// KnownCollection reports whether name is a collection every backend serves.
func KnownCollection(name string) bool {
	for _, c := range Collections() {
		if c == name {
			return true
		}
	}
	return false
}

// Backend is an untyped record store. Records are JSON documents grouped in
// named collections; each document carries a numeric Id.
//
// Batch calls (Create, Update, Delete) return one ItemResult per input in
// input order. A non-nil error means the whole call failed; individual item
// failures are reported through ItemResult.Success.
type Backend interface {
	// Fetch returns the records of collection matching q.
	Fetch(ctx context.Context, collection string, q Query) ([]json.RawMessage, error)

	// FetchByID returns one record or ErrNotFound.
	FetchByID(ctx context.Context, collection string, id int) (json.RawMessage, error)

	// Create inserts records. Records without an Id get one assigned.
	Create(ctx context.Context, collection string, records []json.RawMessage) ([]ItemResult, error)

	// Update merges each record's top-level fields into the stored record
	// with the same Id.
	Update(ctx context.Context, collection string, records []json.RawMessage) ([]ItemResult, error)

	// Delete removes records by Id.
	Delete(ctx context.Context, collection string, ids []int) ([]ItemResult, error)

	// Close releases backend resources.
	Close() error
}

// ItemResult is the per-record outcome of a batch call.
type ItemResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownCollection is returned for collection names no backend serves.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrInvalidQuery is returned for malformed queries.
	ErrInvalidQuery = errors.New("invalid query")
)

// ItemError describes one failed item of a batch call.
type ItemError struct {
	Index   int
	ID      int
	Message string
}

// BatchError reports the failed items of a partially failed batch call.
type BatchError struct {
	Collection string
	Op         string
	Attempted  int
	Failed     []ItemError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		msgs[i] = fmt.Sprintf("#%d (id %d): %s", f.Index, f.ID, f.Message)
	}
	return fmt.Sprintf("%s %s: %d item(s) failed: %s", e.Op, e.Collection, len(e.Failed), strings.Join(msgs, "; "))
}

// Written returns how many items of the batch succeeded.
func (e *BatchError) Written() int {
	return e.Attempted - len(e.Failed)
}

// FailedIDs returns the record ids of the failed items.
func (e *BatchError) FailedIDs() []int {
	ids := make([]int, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = f.ID
	}
	return ids
}

func checkCollection(name string) error {
	if !KnownCollection(name) {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return nil
}
