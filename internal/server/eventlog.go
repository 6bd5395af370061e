package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EventLog appends JSON entries, one per line, to a file.
type EventLog struct {
	path string
	mu   sync.Mutex
}

// NewEventLog creates the parent directory of path.
func NewEventLog(path string) (*EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &EventLog{path: path}, nil
}

// Path returns the log file path.
func (l *EventLog) Path() string { return l.path }

// Append writes every entry as a compact JSON line.
func (l *EventLog) Append(entries []json.RawMessage) error {
	var buf bytes.Buffer
	for _, e := range entries {
		if err := json.Compact(&buf, e); err != nil {
			return fmt.Errorf("compact entry: %w", err)
		}
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write event log: %w", err)
	}
	return f.Close()
}
