// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within taskboard.
package eventbus

import (
	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/notify"
)

// Event names a bus topic.
type Event string

const (
	EventBoardEmitted          Event = "board.emitted"
	EventConfigReloaded        Event = "config.reloaded"
	EventMessageReceived       Event = "message.received"
	EventNotificationPublished Event = "notification.published"
	EventTaskAdded             Event = "task.added"
	EventTaskMoved             Event = "task.moved"
)

// Events lists every event type with its payload struct.
var Events = map[Event]any{
	// Keep list sorted A-Z
	EventBoardEmitted:          BoardEmittedPayload{},
	EventConfigReloaded:        ConfigReloadedPayload{},
	EventMessageReceived:       MessageReceivedPayload{},
	EventNotificationPublished: NotificationPublishedPayload{},
	EventTaskAdded:             TaskAddedPayload{},
	EventTaskMoved:             TaskMovedPayload{},
}

// BoardEmittedPayload carries a board notification the bus has no typed
// event for.
type BoardEmittedPayload struct {
	Type    string
	Payload any
}

// ConfigReloadedPayload is emitted when configuration is reloaded.
type ConfigReloadedPayload struct {
	Config *config.Config
}

// MessageReceivedPayload is emitted when a broadcast message reaches the board.
type MessageReceivedPayload struct {
	Source  string
	Message string
}

// NotificationPublishedPayload is a user-facing notification.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}

// TaskAddedPayload is emitted when the board adds a task.
type TaskAddedPayload struct {
	Task board.TaskAdded
}

// TaskMovedPayload is emitted when a task changes column.
type TaskMovedPayload struct {
	Task board.TaskMoved
}
