package eventbus

import "github.com/colonyops/taskboard/internal/core/board"

// Emit adapts the board's emit(eventType, payload) callback onto typed bus
// events. Unrecognized notifications are published as EventBoardEmitted.
func (bus *EventBus) Emit(eventType string, payload any) {
	switch p := payload.(type) {
	case board.TaskAdded:
		if eventType == board.EventTaskAdded {
			bus.PublishTaskAdded(TaskAddedPayload{Task: p})
			return
		}
	case board.TaskMoved:
		if eventType == board.EventTaskMoved {
			bus.PublishTaskMoved(TaskMovedPayload{Task: p})
			return
		}
	}
	bus.PublishBoardEmitted(BoardEmittedPayload{Type: eventType, Payload: payload})
}
