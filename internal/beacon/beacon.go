// Package beacon batches board notifications and ships them to the server's
// /api/log endpoint.
package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFlushInterval is the delay between the first buffered entry and the flush.
const DefaultFlushInterval = time.Second

// DirEvent marks entries that originate from a board notification.
const DirEvent = "event"

// Entry is one log line as stored in events.jsonl.
type Entry struct {
	SimID   string `json:"simId"`
	Dir     string `json:"dir"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	TS      string `json:"ts"`
}

// Batch is the request body of POST /api/log.
type Batch struct {
	Entries []Entry `json:"entries"`
}

// Options configures a Buffer.
type Options struct {
	ServerURL     string
	SimID         string
	FlushInterval time.Duration
	Client        *http.Client
	Log           zerolog.Logger
}

// Buffer accumulates entries and flushes them once per interval. The first
// Push after a flush arms a one-shot timer; entries pushed before it fires
// go out in the same request.
type Buffer struct {
	endpoint string
	simID    string
	interval time.Duration
	client   *http.Client
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries []Entry
	timer   *time.Timer
	closed  bool
}

// New creates a buffer posting to <ServerURL>/api/log.
func New(opts Options) *Buffer {
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Buffer{
		endpoint: strings.TrimRight(opts.ServerURL, "/") + "/api/log",
		simID:    opts.SimID,
		interval: opts.FlushInterval,
		client:   opts.Client,
		log:      opts.Log,
		now:      time.Now,
	}
}

// Emit records a board notification. It has the board.EmitFunc signature.
func (b *Buffer) Emit(eventType string, payload any) {
	if payload == nil {
		payload = struct{}{}
	}
	b.Push(Entry{
		SimID:   b.simID,
		Dir:     DirEvent,
		Type:    eventType,
		Payload: payload,
	})
}

// Push stamps e with the current time and buffers it.
func (b *Buffer) Push(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	e.TS = b.now().UTC().Format(time.RFC3339Nano)
	b.entries = append(b.entries, e)

	if b.timer == nil {
		b.timer = time.AfterFunc(b.interval, func() {
			ctx, cancel := context.WithTimeout(context.Background(), b.client.Timeout+time.Second)
			defer cancel()
			_ = b.Flush(ctx)
		})
	}
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Flush sends every buffered entry in one request. Failures are logged and
// the entries are dropped.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	entries := b.entries
	b.entries = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}

	if err := b.post(ctx, entries); err != nil {
		b.log.Error().Err(err).Int("count", len(entries)).Msg("failed to flush logs")
		return err
	}
	b.log.Debug().Int("count", len(entries)).Msg("flushed logs")
	return nil
}

// Close flushes what is left and rejects further entries.
func (b *Buffer) Close(ctx context.Context) error {
	err := b.Flush(ctx)
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return err
}

func (b *Buffer) post(ctx context.Context, entries []Entry) error {
	body, err := json.Marshal(Batch{Entries: entries})
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", b.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", b.endpoint, resp.StatusCode)
	}
	return nil
}
