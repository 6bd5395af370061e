package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names shared by every log line.
const (
	FieldComponent = "cmp"
	FieldBoardID   = "board_id"
	FieldTaskID    = "task_id"
)

// Component returns the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str(FieldComponent, name).Logger()
}
