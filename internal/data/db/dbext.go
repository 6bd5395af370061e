package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "taskboard.db"

const (
	pingAttempts = 5
	pingBackoff  = 100 * time.Millisecond
)

// OpenOptions tunes the connection pool. Zero values fall back to
// DefaultOpenOptions.
type OpenOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  int // milliseconds
}

func DefaultOpenOptions() OpenOptions {
	return OpenOptions{MaxOpenConns: 4, MaxIdleConns: 2, BusyTimeout: 5000}
}

func (o OpenOptions) withDefaults() OpenOptions {
	d := DefaultOpenOptions()
	if o.MaxOpenConns > 0 {
		d.MaxOpenConns = o.MaxOpenConns
	}
	if o.MaxIdleConns > 0 {
		d.MaxIdleConns = o.MaxIdleConns
	}
	if o.BusyTimeout > 0 {
		d.BusyTimeout = o.BusyTimeout
	}
	return d
}

// dsn builds a modernc sqlite URI with WAL journaling and the busy timeout
// applied to every pooled connection.
func (o OpenOptions) dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.BusyTimeout))
	return "file:" + path + "?" + q.Encode()
}

// DB is the board database: a pooled sqlite connection with the schema
// migrated and the KV queries bound.
type DB struct {
	conn    *sql.DB
	queries *Queries
}

// Open creates or opens taskboard.db in dataDir and migrates it.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	opts = opts.withDefaults()

	conn, err := sql.Open("sqlite", opts.dsn(filepath.Join(dataDir, FileName)))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)

	ctx := context.Background()
	if err := ping(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := migrateUp(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &DB{conn: conn, queries: New(conn)}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// Conn exposes the pool for migrations and tests.
func (db *DB) Conn() *sql.DB { return db.conn }

func (db *DB) Queries() *Queries { return db.queries }

// ping retries with doubling backoff; a freshly created WAL file can briefly
// report busy while another process finishes opening it.
func ping(ctx context.Context, conn *sql.DB) error {
	wait := pingBackoff
	var err error
	for attempt := range pingAttempts {
		if err = conn.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == pingAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("ping database after %d attempts: %w", pingAttempts, err)
}
