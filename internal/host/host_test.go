package host

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/dnd"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/data/stores"
)

type emitted struct {
	eventType string
	payload   any
}

type recordingSurface struct {
	renders  int
	last     view.Board
	visual   dnd.Visual
	messages []string
}

func (s *recordingSurface) Render(b view.Board, v dnd.Visual) {
	s.renders++
	s.last = b
	s.visual = v
}

func (s *recordingSurface) Notify(msg string) { s.messages = append(s.messages, msg) }

type fixture struct {
	mod     *Module
	target  *Target
	surface *recordingSurface
	events  []emitted
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{target: NewTarget(), surface: &recordingSurface{}}
	f.mod = New(stores.NewMemoryKV(), f.target, zerolog.Nop())
	f.mod.SetSurface(f.surface)

	err := f.mod.Init(context.Background(), Context{
		Config: Config{ID: "task-board"},
		Emit: func(eventType string, payload any) {
			f.events = append(f.events, emitted{eventType, payload})
		},
	})
	require.NoError(t, err)
	t.Cleanup(f.mod.Destroy)
	return f
}

func (f *fixture) dispatch(t *testing.T, ev Event) {
	t.Helper()
	require.NoError(t, f.mod.Dispatch(context.Background(), ev))
}

func TestModule_InitRendersSeed(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 1, f.surface.renders)
	assert.Len(t, f.mod.Tasks(), 7)

	col, ok := f.mod.Board().Column(board.StatusPending)
	require.True(t, ok)
	assert.Equal(t, 3, col.Count)
	assert.Positive(t, f.target.Len())
}

func TestModule_InitTwice(t *testing.T) {
	f := newFixture(t)
	err := f.mod.Init(context.Background(), Context{})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestModule_DestroyReleasesListeners(t *testing.T) {
	f := newFixture(t)
	require.Positive(t, f.target.Len())

	f.mod.Destroy()

	assert.Zero(t, f.target.Len())
	assert.Empty(t, f.mod.Tasks())
	assert.Empty(t, f.mod.AddFormColumn())

	err := f.mod.Dispatch(context.Background(), AddClick{Column: board.StatusDone})
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = f.mod.OnAction(context.Background(), board.Action{Type: board.ActionAddTask})
	assert.ErrorIs(t, err, ErrNotInitialized)

	// second destroy is a no-op
	f.mod.Destroy()
}

func TestModule_ReinitKeepsStorage(t *testing.T) {
	kv := stores.NewMemoryKV()
	target := NewTarget()
	mod := New(kv, target, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, mod.Init(ctx, Context{}))
	require.NoError(t, mod.Dispatch(ctx, Submit{Column: board.StatusBlocked, Title: "Persist me"}))
	mod.Destroy()

	require.NoError(t, mod.Init(ctx, Context{}))
	defer mod.Destroy()

	tasks := mod.Tasks()
	require.Len(t, tasks, 8)
	assert.Equal(t, "t100", tasks[7].ID)
	assert.Equal(t, "Persist me", tasks[7].Title)
	assert.Equal(t, 9, target.Len())
}

func TestModule_AddFormOpenAndCancel(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, AddClick{Column: board.StatusInProgress})
	assert.Equal(t, board.StatusInProgress, f.mod.AddFormColumn())

	col, _ := f.mod.Board().Column(board.StatusInProgress)
	assert.True(t, col.AddFormOpen)

	f.dispatch(t, AddCancel{})
	assert.Empty(t, f.mod.AddFormColumn())
	col, _ = f.mod.Board().Column(board.StatusInProgress)
	assert.False(t, col.AddFormOpen)
}

func TestModule_SubmitTrimsAndAdds(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, AddClick{Column: board.StatusPending})
	f.dispatch(t, Submit{
		Column:   board.StatusPending,
		Title:    "  Ship v2  ",
		Desc:     "  release notes ",
		Priority: board.PriorityHigh,
	})

	assert.Empty(t, f.mod.AddFormColumn())

	tasks := f.mod.Tasks()
	got := tasks[len(tasks)-1]
	assert.Equal(t, "t100", got.ID)
	assert.Equal(t, "Ship v2", got.Title)
	assert.Equal(t, "release notes", got.Desc)
	assert.Equal(t, board.PriorityHigh, got.Priority)

	col, _ := f.mod.Board().Column(board.StatusPending)
	assert.Equal(t, 4, col.Count)

	require.Len(t, f.events, 1)
	assert.Equal(t, board.EventTaskAdded, f.events[0].eventType)
	added, ok := f.events[0].payload.(board.TaskAdded)
	require.True(t, ok)
	assert.Equal(t, "t100", added.TaskID)
}

func TestModule_SubmitEmptyTitleIgnored(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, AddClick{Column: board.StatusPending})
	f.dispatch(t, Submit{Column: board.StatusPending, Title: "   "})

	assert.Len(t, f.mod.Tasks(), 7)
	assert.Equal(t, board.StatusPending, f.mod.AddFormColumn())
	assert.Empty(t, f.events)
}

func TestModule_DragT1ToDone(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, DragStart{TaskID: "t1"})
	assert.Equal(t, dnd.Dragging, f.surface.visual.Phase)
	assert.Equal(t, "t1", f.surface.visual.DraggingID)

	f.dispatch(t, DragOver{Column: board.StatusDone, PointerY: 500, Cards: []dnd.CardBox{
		{TaskID: "t3", Top: 0, Height: 40},
		{TaskID: "t5", Top: 50, Height: 40},
	}})
	assert.Equal(t, board.StatusDone, f.surface.visual.Highlight)
	require.NotNil(t, f.surface.visual.Placeholder)
	assert.Empty(t, f.surface.visual.Placeholder.BeforeTaskID)

	f.dispatch(t, Drop{Column: board.StatusDone})

	assert.Equal(t, dnd.Idle, f.mod.Visual().Phase)
	col, _ := f.mod.Board().Column(board.StatusDone)
	require.Len(t, col.Cards, 3)
	assert.Equal(t, "t3", col.Cards[0].TaskID)
	assert.Equal(t, "t5", col.Cards[1].TaskID)
	assert.Equal(t, "t1", col.Cards[2].TaskID)

	require.Len(t, f.events, 1)
	moved, ok := f.events[0].payload.(board.TaskMoved)
	require.True(t, ok)
	assert.Equal(t, board.EventTaskMoved, f.events[0].eventType)
	assert.Equal(t, board.StatusPending, moved.From)
	assert.Equal(t, board.StatusDone, moved.To)
}

func TestModule_DragBeforeCard(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, DragStart{TaskID: "t7"})
	f.dispatch(t, DragOver{Column: board.StatusPending, PointerY: 10, Cards: []dnd.CardBox{
		{TaskID: "t1", Top: 0, Height: 40},
		{TaskID: "t2", Top: 50, Height: 40},
	}})
	f.dispatch(t, Drop{Column: board.StatusPending})

	col, _ := f.mod.Board().Column(board.StatusPending)
	require.NotEmpty(t, col.Cards)
	assert.Equal(t, "t7", col.Cards[0].TaskID)
	assert.Empty(t, f.events)
}

func TestModule_DragLeaveAndEnd(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, DragStart{TaskID: "t1"})
	f.dispatch(t, DragOver{Column: board.StatusBlocked, PointerY: 0})
	f.dispatch(t, DragLeave{Column: board.StatusBlocked, Inside: true})
	assert.Equal(t, board.StatusBlocked, f.mod.Visual().Highlight)

	f.dispatch(t, DragLeave{Column: board.StatusBlocked})
	assert.Empty(t, f.mod.Visual().Highlight)
	assert.Nil(t, f.mod.Visual().Placeholder)

	f.dispatch(t, DragEnd{})
	assert.Equal(t, dnd.Idle, f.mod.Visual().Phase)
	assert.Empty(t, f.events)
}

func TestModule_PriorityClick(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, PriorityClick{TaskID: "t1"})

	for _, task := range f.mod.Tasks() {
		if task.ID == "t1" {
			assert.Equal(t, board.PriorityLow, task.Priority)
		}
	}
	assert.Empty(t, f.events)
}

func TestModule_OnAction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	add, err := board.NewAction(board.ActionAddTask, board.AddTaskPayload{Title: "From host"})
	require.NoError(t, err)
	require.NoError(t, f.mod.OnAction(ctx, add))

	move, err := board.NewAction(board.ActionMoveTask, board.MoveTaskPayload{Title: "From host", To: board.StatusDone})
	require.NoError(t, err)
	require.NoError(t, f.mod.OnAction(ctx, move))

	col, _ := f.mod.Board().Column(board.StatusDone)
	require.Len(t, col.Cards, 3)
	assert.Equal(t, "From host", col.Cards[2].Title)

	err = f.mod.OnAction(ctx, board.Action{Type: "explode"})
	assert.ErrorIs(t, err, board.ErrUnknownAction)
}

func TestModule_OnMessageNotifiesSurface(t *testing.T) {
	f := newFixture(t)

	f.mod.OnMessage("hello")

	assert.Equal(t, []string{"hello"}, f.surface.messages)
}

func TestModule_NilEmit(t *testing.T) {
	mod := New(stores.NewMemoryKV(), NewTarget(), zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, mod.Init(ctx, Context{}))
	defer mod.Destroy()

	require.NoError(t, mod.Dispatch(ctx, Submit{Column: board.StatusDone, Title: "quiet"}))
	assert.Len(t, mod.Tasks(), 8)
}

func TestTarget_ScopeRelease(t *testing.T) {
	target := NewTarget()
	scope, cancel := context.WithCancel(context.Background())

	var calls int
	target.On(scope, KindDragEnd, func(context.Context, Event) error {
		calls++
		return nil
	})
	target.On(context.Background(), KindDragEnd, func(context.Context, Event) error {
		calls += 10
		return nil
	})

	require.NoError(t, target.Dispatch(context.Background(), DragEnd{}))
	assert.Equal(t, 11, calls)
	assert.Equal(t, 2, target.Len())

	cancel()
	require.NoError(t, target.Dispatch(context.Background(), DragEnd{}))
	assert.Equal(t, 21, calls)
	assert.Equal(t, 1, target.Len())
}

func TestTarget_StopsAtFirstError(t *testing.T) {
	target := NewTarget()
	ctx := context.Background()

	boom := assert.AnError
	var second bool
	target.On(ctx, KindDrop, func(context.Context, Event) error { return boom })
	target.On(ctx, KindDrop, func(context.Context, Event) error {
		second = true
		return nil
	})

	err := target.Dispatch(ctx, Drop{Column: board.StatusDone})
	assert.ErrorIs(t, err, boom)
	assert.False(t, second)
}
