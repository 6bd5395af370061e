package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/taskboard/internal/core/kv"
	"github.com/colonyops/taskboard/internal/data/db"
)

const (
	busyRetries = 3
	busyBackoff = 20 * time.Millisecond
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db *db.DB
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the value stored under key, or an error wrapping kv.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	row, err := s.db.Queries().KVGet(ctx, key)
	if IsNotFoundError(err) {
		return "", fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("kv get %q: %w", key, err)
	}
	return row.Value, nil
}

// Set stores value under key, replacing prior contents. A write that hits
// SQLITE_BUSY is retried a few times before giving up.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	now := time.Now().UnixNano()
	params := db.KVSetParams{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	for attempt := range busyRetries {
		if err = s.db.Queries().KVSet(ctx, params); !IsBusyError(err) {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("kv set %q: %w", key, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * busyBackoff):
		}
	}
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Queries().KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	count, err := s.db.Queries().KVHas(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// ListKeys returns all keys in sorted order.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.db.Queries().KVListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}
