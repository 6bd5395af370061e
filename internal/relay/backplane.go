package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultChannel is the Redis channel shared by every server instance.
const DefaultChannel = "taskboard:broadcast"

const resubscribeDelay = time.Second

// Broadcaster delivers a message to local sockets.
type Broadcaster interface {
	Broadcast(message string) error
}

// Backplane publishes messages on a Redis channel and rebroadcasts whatever
// arrives on it to the local hub, so every instance reaches its own sockets.
type Backplane struct {
	rc      *redis.Client
	channel string
	local   Broadcaster
	log     zerolog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewBackplane links local to channel on rc.
func NewBackplane(rc *redis.Client, channel string, local Broadcaster, log zerolog.Logger) *Backplane {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Backplane{
		rc:      rc,
		channel: channel,
		local:   local,
		log:     log,
		ready:   make(chan struct{}),
	}
}

// Publish sends message to every instance, this one included.
func (b *Backplane) Publish(ctx context.Context, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	if err := b.rc.Publish(ctx, b.channel, message).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", b.channel, err)
	}
	return nil
}

// Ready is closed once the first subscription is confirmed.
func (b *Backplane) Ready() <-chan struct{} { return b.ready }

// Run subscribes until ctx is done, resubscribing when the channel closes.
func (b *Backplane) Run(ctx context.Context) {
	for {
		b.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		b.log.Error().Str("channel", b.channel).Msg("pubsub channel closed, resubscribing")

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}
	}
}

func (b *Backplane) consume(ctx context.Context) {
	sub := b.rc.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() == nil {
			b.log.Error().Err(err).Str("channel", b.channel).Msg("subscribe failed")
		}
		return
	}
	b.readyOnce.Do(func() { close(b.ready) })

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := b.local.Broadcast(msg.Payload); err != nil {
				b.log.Warn().Err(err).Msg("dropping backplane message")
			}
		}
	}
}
