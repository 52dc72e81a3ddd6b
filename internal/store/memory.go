package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Backend. It is safe for concurrent use and is
// the backing used by tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[int]document
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset drops every record in every collection.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[int]document, len(Collections()))
	for _, c := range Collections() {
		m.data[c] = make(map[int]document)
	}
}

func (m *Memory) Fetch(_ context.Context, collection string, q Query) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}

	m.mu.RLock()
	docs := make([]document, 0, len(m.data[collection]))
	for _, d := range m.data[collection] {
		docs = append(docs, d)
	}
	m.mu.RUnlock()

	selected := q.apply(docs)
	out := make([]json.RawMessage, 0, len(selected))
	for _, d := range selected {
		raw, err := d.encode()
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (m *Memory) FetchByID(_ context.Context, collection string, id int) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	d, ok := m.data[collection][id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", collection, id, ErrNotFound)
	}
	return d.encode()
}

func (m *Memory) Create(_ context.Context, collection string, records []json.RawMessage) ([]ItemResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.data[collection]
	results := make([]ItemResult, len(records))
	for i, raw := range records {
		doc, err := decodeDocument(raw)
		if err != nil {
			results[i] = ItemResult{Message: err.Error()}
			continue
		}
		id := doc.id()
		if id > 0 {
			if _, taken := coll[id]; taken {
				results[i] = ItemResult{Message: fmt.Sprintf("id %d already exists", id)}
				continue
			}
		} else {
			id = nextID(coll)
		}
		doc.setID(id)
		stored, err := roundTrip(doc)
		if err != nil {
			results[i] = ItemResult{Message: err.Error()}
			continue
		}
		coll[id] = stored
		out, _ := stored.encode()
		results[i] = ItemResult{Success: true, Data: out}
	}
	return results, nil
}

func (m *Memory) Update(_ context.Context, collection string, records []json.RawMessage) ([]ItemResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.data[collection]
	results := make([]ItemResult, len(records))
	for i, raw := range records {
		patch, err := decodeDocument(raw)
		if err != nil {
			results[i] = ItemResult{Message: err.Error()}
			continue
		}
		id := patch.id()
		existing, ok := coll[id]
		if !ok {
			results[i] = ItemResult{Message: fmt.Sprintf("id %d: %v", id, ErrNotFound)}
			continue
		}
		merged := make(document, len(existing)+len(patch))
		merged.merge(existing)
		merged.merge(patch)
		stored, err := roundTrip(merged)
		if err != nil {
			results[i] = ItemResult{Message: err.Error()}
			continue
		}
		coll[id] = stored
		out, _ := stored.encode()
		results[i] = ItemResult{Success: true, Data: out}
	}
	return results, nil
}

func (m *Memory) Delete(_ context.Context, collection string, ids []int) ([]ItemResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.data[collection]
	results := make([]ItemResult, len(ids))
	for i, id := range ids {
		d, ok := coll[id]
		if !ok {
			results[i] = ItemResult{Message: fmt.Sprintf("id %d: %v", id, ErrNotFound)}
			continue
		}
		delete(coll, id)
		out, _ := d.encode()
		results[i] = ItemResult{Success: true, Data: out}
	}
	return results, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func nextID(coll map[int]document) int {
	max := 0
	for id := range coll {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// roundTrip stores documents in their JSON-decoded form so reads never
// alias caller memory.
func roundTrip(d document) (document, error) {
	raw, err := d.encode()
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}
