package logging

import "context"

type scopeKey struct{}

// scope is the set of log fields a context carries. ContextHook copies it
// onto every event logged with that context.
type scope struct {
	boardID string
	taskID  string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func WithBoardID(ctx context.Context, boardID string) context.Context {
	s := scopeFrom(ctx)
	s.boardID = boardID
	return context.WithValue(ctx, scopeKey{}, s)
}

func WithTaskID(ctx context.Context, taskID string) context.Context {
	s := scopeFrom(ctx)
	s.taskID = taskID
	return context.WithValue(ctx, scopeKey{}, s)
}

// BoardID returns the board id in ctx, or "".
func BoardID(ctx context.Context) string { return scopeFrom(ctx).boardID }

// TaskID returns the task id in ctx, or "".
func TaskID(ctx context.Context) string { return scopeFrom(ctx).taskID }
