package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/logging"
)

// RegisterDebugLogger logs bus traffic. Published events are logged at debug
// level with the task id when the payload names one; dropped events and
// subscriber panics are logged as warnings and errors.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		if id := payloadTaskID(payload); id != "" {
			e = e.Str(logging.FieldTaskID, id)
		}
		e.Msg("event published")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Int("buffer", cap(bus.ch)).Msg("event dropped, bus buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func payloadTaskID(payload any) string {
	switch p := payload.(type) {
	case TaskAddedPayload:
		return p.Task.TaskID
	case TaskMovedPayload:
		return p.Task.TaskID
	default:
		return ""
	}
}
