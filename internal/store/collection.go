package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Records is the typed record access consumers depend on.
type Records[T any] interface {
	Fetch(ctx context.Context, q Query) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, items ...T) ([]T, error)
	Update(ctx context.Context, items ...T) ([]T, error)
	Delete(ctx context.Context, ids ...int) error
}

// Collection is a typed view of one backend collection. T must marshal to
// a JSON object carrying the Id field.
type Collection[T any] struct {
	backend Backend
	name    string
}

// NewCollection returns a typed view of the named collection.
func NewCollection[T any](b Backend, name string) *Collection[T] {
	return &Collection[T]{backend: b, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) Fetch(ctx context.Context, q Query) ([]T, error) {
	raws, err := c.backend.Fetch(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", c.name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id int) (T, error) {
	var v T
	raw, err := c.backend.FetchByID(ctx, c.name, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s record: %w", c.name, err)
	}
	return v, nil
}

// Create inserts items and returns them as stored, with ids assigned.
// When some items fail, the stored ones are returned together with a
// *BatchError describing the rest.
func (c *Collection[T]) Create(ctx context.Context, items ...T) ([]T, error) {
	raws, err := c.encode(items)
	if err != nil {
		return nil, err
	}
	results, err := c.backend.Create(ctx, c.name, raws)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", c.name, err)
	}
	return c.collect("create", raws, results)
}

// Update merges items into the stored records with the same ids. Partial
// failures are reported like Create.
func (c *Collection[T]) Update(ctx context.Context, items ...T) ([]T, error) {
	raws, err := c.encode(items)
	if err != nil {
		return nil, err
	}
	results, err := c.backend.Update(ctx, c.name, raws)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.name, err)
	}
	return c.collect("update", raws, results)
}

func (c *Collection[T]) Delete(ctx context.Context, ids ...int) error {
	results, err := c.backend.Delete(ctx, c.name, ids)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	var failed []ItemError
	for i, r := range results {
		if !r.Success {
			failed = append(failed, ItemError{Index: i, ID: ids[i], Message: r.Message})
		}
	}
	if len(failed) > 0 {
		return &BatchError{Collection: c.name, Op: "delete", Attempted: len(ids), Failed: failed}
	}
	return nil
}

func (c *Collection[T]) encode(items []T) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode %s record: %w", c.name, err)
		}
		raws[i] = b
	}
	return raws, nil
}

func (c *Collection[T]) collect(op string, sent []json.RawMessage, results []ItemResult) ([]T, error) {
	if len(results) != len(sent) {
		return nil, fmt.Errorf("%s %s: got %d results for %d records", op, c.name, len(results), len(sent))
	}
	var (
		out    []T
		failed []ItemError
	)
	for i, r := range results {
		if !r.Success {
			failed = append(failed, ItemError{Index: i, ID: rawID(sent[i]), Message: r.Message})
			continue
		}
		var v T
		if err := json.Unmarshal(r.Data, &v); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", c.name, err)
		}
		out = append(out, v)
	}
	if len(failed) > 0 {
		return out, &BatchError{Collection: c.name, Op: op, Attempted: len(sent), Failed: failed}
	}
	return out, nil
}

func rawID(raw json.RawMessage) int {
	doc, err := decodeDocument(raw)
	if err != nil {
		return 0
	}
	return doc.id()
}
