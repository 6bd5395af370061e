package stores

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/kv"
	"github.com/colonyops/taskboard/internal/data/db"
)

// Storage drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Options selects and configures a KV backend.
type Options struct {
	Driver    string
	DataDir   string
	DB        db.OpenOptions
	RedisAddr string
	RedisDB   int
	RedisKey  string // key prefix
}

// Open builds the KV backend named by opts.Driver. The returned closer releases
// the backend's connections and is never nil.
func Open(ctx context.Context, opts Options) (kv.KV, func() error, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryKV(), func() error { return nil }, nil
	case DriverRedis:
		rc := redis.NewClient(&redis.Options{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", opts.RedisAddr, err)
		}
		return NewRedisKV(rc, opts.RedisKey), rc.Close, nil
	case DriverSQLite, "":
		database, err := openSQLite(opts.DataDir, opts.DB)
		if err != nil {
			return nil, nil, err
		}
		return NewKVStore(database), database.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// openSQLite opens the board database, moving a corrupt file aside once and
// starting fresh when the first attempt reports corruption.
func openSQLite(dataDir string, opts db.OpenOptions) (*db.DB, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, nil
	}
	if !IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Warn().Err(err).Str("data_dir", dataDir).Msg("database corrupted, recovering")
	if rerr := RecoverFromCorruption(dataDir); rerr != nil {
		return nil, fmt.Errorf("recover database: %w", rerr)
	}

	database, err = db.Open(dataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}
