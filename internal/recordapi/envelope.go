package recordapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/learnquest/internal/store"
)

// Envelope is the body of every record API response. Success is false
// only when the whole call failed; per-item failures of batch calls are
// reported in Results.
type Envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data,omitempty"`
	Results []store.ItemResult `json:"results,omitempty"`
	Code    string             `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
}

// RecordsRequest is the body of create and update calls.
type RecordsRequest struct {
	Records []json.RawMessage `json:"records"`
}

// DeleteRequest is the body of delete calls.
type DeleteRequest struct {
	RecordIDs []int `json:"recordIds"`
}

// Error codes carried in Envelope.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeNotFound          = "not_found"
	CodeUnknownCollection = "unknown_collection"
	CodeInvalidQuery      = "invalid_query"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
)

// APIError is a failed call as seen by the client.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps error codes back to the store sentinels.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case CodeNotFound:
		return store.ErrNotFound
	case CodeUnknownCollection:
		return store.ErrUnknownCollection
	case CodeInvalidQuery:
		return store.ErrInvalidQuery
	}
	return nil
}

// classify maps a backend error to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrUnknownCollection):
		return http.StatusNotFound, CodeUnknownCollection
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, store.ErrInvalidQuery):
		return http.StatusBadRequest, CodeInvalidQuery
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Code: code, Message: msg})
}
