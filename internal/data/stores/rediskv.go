package stores

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/colonyops/taskboard/internal/core/kv"
)

// DefaultRedisPrefix namespaces board keys inside a shared Redis database.
const DefaultRedisPrefix = "taskboard:"

// RedisKV implements kv.KV on a Redis client. Keys are stored with a prefix
// which is stripped again by ListKeys.
type RedisKV struct {
	rc     *redis.Client
	prefix string
}

var _ kv.KV = (*RedisKV)(nil)

// NewRedisKV wraps rc. An empty prefix uses DefaultRedisPrefix.
func NewRedisKV(rc *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisKV{rc: rc, prefix: prefix}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rc.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("kv get %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.rc.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.rc.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.rc.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return n > 0, nil
}

// ListKeys scans the prefix and returns the unprefixed keys in sorted order.
func (r *RedisKV) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.rc.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
