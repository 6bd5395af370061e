package eventbus

import (
	"fmt"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/notify"
)

// RouteNotifications turns board events into NotificationPublished events
// for toast surfaces. Relay messages are not routed; the host surface shows
// them. A nil bus is ignored.
func RouteNotifications(bus *EventBus) {
	if bus == nil {
		return
	}

	publish := func(level notify.Level, msg string) {
		bus.PublishNotificationPublished(NotificationPublishedPayload{Level: level, Message: msg})
	}

	bus.SubscribeTaskAdded(func(p TaskAddedPayload) {
		publish(taskAddedNotice(p.Task))
	})
	bus.SubscribeTaskMoved(func(p TaskMovedPayload) {
		publish(taskMovedNotice(p.Task))
	})
	bus.SubscribeConfigReloaded(func(p ConfigReloadedPayload) {
		if p.Config == nil {
			publish(notify.LevelWarning, "config reload produced no config")
			return
		}
		publish(notify.LevelInfo, "config reloaded")
	})
}

func taskAddedNotice(t board.TaskAdded) (notify.Level, string) {
	return notify.LevelInfo, fmt.Sprintf("added %q to %s", t.Title, t.Status)
}

// Moving a card into the blocked column is surfaced as a warning.
func taskMovedNotice(t board.TaskMoved) (notify.Level, string) {
	level := notify.LevelInfo
	if t.To == board.StatusBlocked {
		level = notify.LevelWarning
	}
	return level, fmt.Sprintf("moved %q from %s to %s", t.Title, t.From, t.To)
}
