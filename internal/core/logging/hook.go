package logging

import "github.com/rs/zerolog"

// ContextHook adds board_id and task_id to events logged with .Ctx(ctx).
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}
	s := scopeFrom(ctx)
	if s.boardID != "" {
		e.Str(FieldBoardID, s.boardID)
	}
	if s.taskID != "" {
		e.Str(FieldTaskID, s.taskID)
	}
}
