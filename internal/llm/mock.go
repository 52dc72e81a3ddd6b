package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Reply is one scripted Mock answer.
type Reply struct {
	Content      string
	Err          error
	InputTokens  int
	OutputTokens int
}

// ErrScriptExhausted is returned by Mock once its replies run out.
var ErrScriptExhausted = errors.New("mock: no scripted replies left")

// Mock replays scripted replies in order and records every request.
// Replies are still checked against the request schema.
type Mock struct {
	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewMock returns a Mock that answers with replies in order.
func NewMock(replies ...Reply) *Mock {
	return &Mock{replies: replies}
}

func (m *Mock) ModelID() string { return ProviderMock }

func (m *Mock) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, ErrScriptExhausted
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return finish(req, json.RawMessage(r.Content), ProviderMock, StopEnd, r.InputTokens, r.OutputTokens)
}

// Requests returns a copy of the requests seen so far.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
