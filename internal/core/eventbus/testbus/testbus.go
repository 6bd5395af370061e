// Package testbus wraps a running EventBus and records what is published
// on it.
package testbus

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/taskboard/internal/core/eventbus"
)

// Record is one event accepted or dropped by the bus.
type Record struct {
	Event   eventbus.Event
	Payload any
	Dropped bool
}

// Bus is a started EventBus that records every send through its publish and
// drop hooks.
type Bus struct {
	*eventbus.EventBus

	mu      sync.Mutex
	records []Record
	changed chan struct{}
}

// New starts a bus for the duration of t.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New(64), changed: make(chan struct{})}
	tb.OnPublish(func(e eventbus.Event, p any) { tb.add(Record{Event: e, Payload: p}) })
	tb.OnDrop(func(e eventbus.Event, p any) { tb.add(Record{Event: e, Payload: p, Dropped: true}) })

	ctx, cancel := context.WithCancel(context.Background())
	go tb.Start(ctx)
	t.Cleanup(cancel)
	return tb
}

func (tb *Bus) add(r Record) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.records = append(tb.records, r)
	close(tb.changed)
	tb.changed = make(chan struct{})
}

// Records returns a snapshot of everything sent so far.
func (tb *Bus) Records() []Record {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return slices.Clone(tb.records)
}

// Of returns the payloads published for event, oldest first. Dropped sends
// are excluded.
func (tb *Bus) Of(event eventbus.Event) []any {
	var out []any
	for _, r := range tb.Records() {
		if r.Event == event && !r.Dropped {
			out = append(out, r.Payload)
		}
	}
	return out
}

func (tb *Bus) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.records = nil
}

// WaitFor reports whether event is published before timeout elapses.
func (tb *Bus) WaitFor(event eventbus.Event, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		tb.mu.Lock()
		changed := tb.changed
		tb.mu.Unlock()

		if len(tb.Of(event)) > 0 {
			return true
		}
		select {
		case <-changed:
		case <-deadline.C:
			return false
		}
	}
}

func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if !tb.WaitFor(event, 500*time.Millisecond) {
		t.Errorf("event %q was not published", event)
	}
}

// AssertNotPublished fails if event is published within wait.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	if tb.WaitFor(event, wait) {
		t.Errorf("event %q was published", event)
	}
}
