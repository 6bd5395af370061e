package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUndecodable is returned (wrapped) when a stored value is not valid JSON
// for the requested type.
var ErrUndecodable = errors.New("kv: value does not decode")

// JSON is a single JSON-encoded value stored at a fixed key.
type JSON[T any] struct {
	store KV
	key   string
}

func NewJSON[T any](store KV, key string) JSON[T] {
	return JSON[T]{store: store, key: key}
}

func (j JSON[T]) Key() string { return j.key }

// Load decodes the stored value. An absent key or an empty string both
// report ErrNotFound.
func (j JSON[T]) Load(ctx context.Context) (T, error) {
	var v T
	raw, err := j.store.Get(ctx, j.key)
	if err != nil {
		return v, err
	}
	if raw == "" {
		return v, fmt.Errorf("%s: empty value: %w", j.key, ErrNotFound)
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("%s: %w: %w", j.key, ErrUndecodable, err)
	}
	return v, nil
}

// Store encodes value and replaces whatever the key held.
func (j JSON[T]) Store(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", j.key, err)
	}
	return j.store.Set(ctx, j.key, string(data))
}

func (j JSON[T]) Clear(ctx context.Context) error {
	return j.store.Delete(ctx, j.key)
}
