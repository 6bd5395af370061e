package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/taskboard/internal/core/kv"
	"github.com/colonyops/taskboard/internal/data/db"
)

// corruptionMessages match corruption reported by layers that drop the
// sqlite error type.
var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
	"database corruption",
}

func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code(), true
}

// IsBusyError reports whether err is SQLITE_BUSY.
func IsBusyError(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether err means the board database file is
// unusable and should be moved aside.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		switch code {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN:
			return true
		}
		return false
	}

	msg := err.Error()
	for _, m := range corruptionMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports a missing row or key.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, kv.ErrNotFound)
}

// RecoverFromCorruption renames the board database and its -wal/-shm files
// to <name>.corrupt.<timestamp> so the next open starts empty. The board
// then falls back to its seed tasks.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	if err := os.Rename(dbPath, backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("back up corrupt database: %w", err)
	}

	// Leftover journal files would be replayed against the new database.
	for _, suffix := range []string{"-wal", "-shm"} {
		side := dbPath + suffix
		if _, err := os.Stat(side); err != nil {
			continue
		}
		if err := os.Rename(side, backup+suffix); err != nil {
			if rmErr := os.Remove(side); rmErr != nil {
				return fmt.Errorf("move aside %s: %w", filepath.Base(side), err)
			}
		}
	}
	return nil
}
