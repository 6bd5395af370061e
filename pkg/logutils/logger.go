// Package logutils builds the process-wide zerolog logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger at level ("debug", "info", "warn", "error", "fatal").
// With a file it appends JSON lines there; without one it writes
// human-readable lines to stderr. closer releases the file and is never nil.
func New(level, file string, hooks ...zerolog.Hook) (logger zerolog.Logger, closer func(), err error) {
	closer = func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return logger, closer, fmt.Errorf("parse log level: %w", err)
	}

	out, closer, err := open(file)
	if err != nil {
		return logger, func() {}, err
	}

	logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	for _, h := range hooks {
		logger = logger.Hook(h)
	}
	return logger, closer, nil
}

func open(file string) (io.Writer, func(), error) {
	if file == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
