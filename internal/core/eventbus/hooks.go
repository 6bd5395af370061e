package eventbus

import "sync"

// hooks holds the lifecycle hook state for the EventBus.
type hooks struct {
	mu          sync.RWMutex
	onPublish   []func(Event, any)
	onDrop      []func(Event, any)
	onSubscribe []func(Event)
	onPanic     []func(Event, any, any)
}

// OnPublish registers a hook that fires after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onPublish = append(bus.hooks.onPublish, fn)
}

// OnDrop registers a hook that fires when an event is dropped on a full buffer.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onDrop = append(bus.hooks.onDrop, fn)
}

// OnSubscribe registers a hook that fires after a subscriber is registered.
func (bus *EventBus) OnSubscribe(fn func(Event)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onSubscribe = append(bus.hooks.onSubscribe, fn)
}

// OnPanic registers a hook that fires when a subscriber panics.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onPanic = append(bus.hooks.onPanic, fn)
}

// send enqueues an event and fires hooks. Never blocks.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range bus.hooks.onPublishHooks() {
			fn(event, payload)
		}
	default:
		for _, fn := range bus.hooks.onDropHooks() {
			fn(event, payload)
		}
	}
}

func (bus *EventBus) runOnSubscribe(event Event) {
	for _, fn := range bus.hooks.onSubscribeHooks() {
		fn(event)
	}
}

// runOnPanic fires panic hooks; a hook that panics itself is ignored.
func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range bus.hooks.onPanicHooks() {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, payload, recovered)
		}()
	}
}

func (h *hooks) onPublishHooks() []func(Event, any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.onPublish)
}

func (h *hooks) onDropHooks() []func(Event, any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.onDrop)
}

func (h *hooks) onSubscribeHooks() []func(Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.onSubscribe)
}

func (h *hooks) onPanicHooks() []func(Event, any, any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.onPanic)
}

// clone copies a hook slice so hooks run without the lock held.
func clone[F any](fns []F) []F {
	out := make([]F, len(fns))
	copy(out, fns)
	return out
}
