// Package kv defines the string-valued key-value contract the board persists to.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) by Get when a key is absent.
var ErrNotFound = errors.New("kv: key not found")

// KV is a synchronous, best-effort key-value store. Values are opaque strings;
// callers own their encoding. Any method may fail and callers must treat writes
// as fire-and-forget when the data is also held in memory.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
}

// IsNotFound reports whether err means the key was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
