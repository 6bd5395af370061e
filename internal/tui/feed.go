package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/notify"
)

// NotificationMsg shows a toast.
type NotificationMsg struct {
	Notification notify.Notification
}

// RelayMsg carries a host message received over the relay.
type RelayMsg struct {
	Message string
}

// ConfigMsg carries a reloaded configuration.
type ConfigMsg struct {
	Config *config.Config
}

// Feed carries messages from background goroutines (event bus, relay
// client, config watcher) into the update loop.
type Feed chan tea.Msg

// NewFeed creates a feed buffering up to size messages.
func NewFeed(size int) Feed {
	return make(Feed, size)
}

// Send queues msg, dropping it when the buffer is full.
func (f Feed) Send(msg tea.Msg) bool {
	select {
	case f <- msg:
		return true
	default:
		return false
	}
}

func waitForFeed(f Feed) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return <-f
	}
}
