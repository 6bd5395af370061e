package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches published events to subscribers on a single goroutine
// started by Start. Publish never blocks; when the buffer is full the event is
// dropped and OnDrop hooks fire.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given channel buffer size.
func New(buffer int) *EventBus {
	if buffer < 0 {
		buffer = 0
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	handlers := make([]func(any), len(bus.subs[env.event]))
	copy(handlers, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	bus.runOnSubscribe(event)
}

func (bus *EventBus) PublishBoardEmitted(p BoardEmittedPayload) { bus.send(EventBoardEmitted, p) }

func (bus *EventBus) SubscribeBoardEmitted(fn func(BoardEmittedPayload)) {
	bus.subscribe(EventBoardEmitted, func(p any) { fn(p.(BoardEmittedPayload)) })
}

func (bus *EventBus) PublishConfigReloaded(p ConfigReloadedPayload) { bus.send(EventConfigReloaded, p) }

func (bus *EventBus) SubscribeConfigReloaded(fn func(ConfigReloadedPayload)) {
	bus.subscribe(EventConfigReloaded, func(p any) { fn(p.(ConfigReloadedPayload)) })
}

func (bus *EventBus) PublishMessageReceived(p MessageReceivedPayload) {
	bus.send(EventMessageReceived, p)
}

func (bus *EventBus) SubscribeMessageReceived(fn func(MessageReceivedPayload)) {
	bus.subscribe(EventMessageReceived, func(p any) { fn(p.(MessageReceivedPayload)) })
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}

func (bus *EventBus) PublishTaskAdded(p TaskAddedPayload) { bus.send(EventTaskAdded, p) }

func (bus *EventBus) SubscribeTaskAdded(fn func(TaskAddedPayload)) {
	bus.subscribe(EventTaskAdded, func(p any) { fn(p.(TaskAddedPayload)) })
}

func (bus *EventBus) PublishTaskMoved(p TaskMovedPayload) { bus.send(EventTaskMoved, p) }

func (bus *EventBus) SubscribeTaskMoved(fn func(TaskMovedPayload)) {
	bus.subscribe(EventTaskMoved, func(p any) { fn(p.(TaskMovedPayload)) })
}
