package host

import (
	"context"
	"sync"
)

// Listener handles one UI event.
type Listener func(ctx context.Context, ev Event) error

type registration struct {
	scope context.Context
	fn    Listener
}

// Target is the element UI events are dispatched to. Listeners are registered
// with a scope context and stop receiving events once that context is done,
// so a whole group is released by one cancel.
type Target struct {
	mu        sync.Mutex
	listeners map[Kind][]registration
}

// NewTarget creates an empty target.
func NewTarget() *Target {
	return &Target{listeners: make(map[Kind][]registration)}
}

// On registers fn for kind until scope is done.
func (t *Target) On(scope context.Context, kind Kind, fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners[kind] = append(t.listeners[kind], registration{scope: scope, fn: fn})
}

// Dispatch delivers ev to every live listener for its kind, in registration
// order, stopping at the first error.
func (t *Target) Dispatch(ctx context.Context, ev Event) error {
	for _, fn := range t.live(ev.Kind()) {
		if err := fn(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of live listeners.
func (t *Target) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for kind := range t.listeners {
		t.prune(kind)
		n += len(t.listeners[kind])
	}
	return n
}

func (t *Target) live(kind Kind) []Listener {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(kind)
	out := make([]Listener, 0, len(t.listeners[kind]))
	for _, r := range t.listeners[kind] {
		out = append(out, r.fn)
	}
	return out
}

// prune drops registrations whose scope is done. Caller holds mu.
func (t *Target) prune(kind Kind) {
	regs := t.listeners[kind]
	kept := regs[:0]
	for _, r := range regs {
		if r.scope.Err() == nil {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(t.listeners, kind)
		return
	}
	t.listeners[kind] = kept
}
