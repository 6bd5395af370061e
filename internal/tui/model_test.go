package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/dnd"
	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/data/stores"
	"github.com/colonyops/taskboard/internal/host"
	"github.com/colonyops/taskboard/pkg/tuitest"
)

func newTestModel(t *testing.T) (Model, *host.Module) {
	t.Helper()

	mod := host.New(stores.NewMemoryKV(), host.NewTarget(), zerolog.Nop())
	require.NoError(t, mod.Init(context.Background(), host.Context{Config: host.Config{ID: "task-board"}}))
	t.Cleanup(mod.Destroy)

	m := New(Options{Module: mod})
	updated, _ := m.Update(tuitest.WindowSize(140, 40))
	return updated.(Model), mod
}

func press(t *testing.T, m Model, keys ...tea.KeyPressMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return press(t, m, tuitest.Type(s)...)
}

func columnIDs(t *testing.T, mod *host.Module, status board.Status) []string {
	t.Helper()
	col, ok := mod.Board().Column(status)
	require.True(t, ok)
	ids := make([]string, 0, len(col.Cards))
	for _, c := range col.Cards {
		ids = append(ids, c.TaskID)
	}
	return ids
}

func findTask(mod *host.Module, id string) (board.Task, bool) {
	for _, task := range mod.Tasks() {
		if task.ID == id {
			return task, true
		}
	}
	return board.Task{}, false
}

func TestModel_ViewShowsColumns(t *testing.T) {
	m, _ := newTestModel(t)

	out := tuitest.StripANSI(m.render())
	for _, label := range []string{"Pending", "In Progress", "Blocked", "Done"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "Task Board (7 tasks)")
	assert.Contains(t, out, "Run final staging")
}

func TestModel_KeyboardDragToDone(t *testing.T) {
	m, mod := newTestModel(t)

	m = press(t, m, tuitest.Key(tea.KeySpace))
	require.True(t, m.dragging)
	assert.Equal(t, dnd.Dragging, mod.Visual().Phase)
	assert.Equal(t, "t1", mod.Visual().DraggingID)

	m = press(t, m, tuitest.Key(tea.KeyRight), tuitest.Key(tea.KeyRight), tuitest.Key(tea.KeyRight))
	assert.Equal(t, board.StatusDone, mod.Visual().Highlight)

	m = press(t, m, tuitest.Key(tea.KeyDown), tuitest.Key(tea.KeyDown), tuitest.Key(tea.KeyDown))
	require.NotNil(t, mod.Visual().Placeholder)
	assert.Empty(t, mod.Visual().Placeholder.BeforeTaskID)
	assert.Contains(t, tuitest.StripANSI(m.render()), styles.IconPlaceholder)

	m = press(t, m, tuitest.Key(tea.KeyEnter))
	assert.False(t, m.dragging)
	assert.Equal(t, dnd.Idle, mod.Visual().Phase)
	assert.Equal(t, []string{"t3", "t5", "t1"}, columnIDs(t, mod, board.StatusDone))
	assert.Equal(t, []string{"t2", "t7"}, columnIDs(t, mod, board.StatusPending))
	assert.Equal(t, 3, m.focusCol)
	assert.Equal(t, 2, m.focusCard)
}

func TestModel_KeyboardDragBeforeCard(t *testing.T) {
	m, mod := newTestModel(t)

	// t7 is the third pending card; grab it and move it to the top
	m = press(t, m, tuitest.Key(tea.KeyDown), tuitest.Key(tea.KeyDown), tuitest.Key(tea.KeySpace))
	require.Equal(t, "t7", mod.Visual().DraggingID)

	m = press(t, m, tuitest.Key(tea.KeyUp), tuitest.Key(tea.KeyUp), tuitest.Key(tea.KeyEnter))
	assert.Equal(t, []string{"t7", "t1", "t2"}, columnIDs(t, mod, board.StatusPending))
	assert.Equal(t, 0, m.focusCard)
}

func TestModel_DragCancel(t *testing.T) {
	m, mod := newTestModel(t)

	m = press(t, m, tuitest.Key(tea.KeySpace), tuitest.Key(tea.KeyRight), tuitest.Key(tea.KeyEscape))
	assert.False(t, m.dragging)
	assert.Equal(t, dnd.Idle, mod.Visual().Phase)
	assert.Equal(t, []string{"t1", "t2", "t7"}, columnIDs(t, mod, board.StatusPending))
}

func TestModel_AddTask(t *testing.T) {
	m, mod := newTestModel(t)

	m = press(t, m, tuitest.Key(tea.KeyRight), tuitest.Text("a"))
	require.NotNil(t, m.form)
	assert.Equal(t, board.StatusInProgress, mod.AddFormColumn())

	m = typeText(t, m, "Ship")
	m = press(t, m, tuitest.Key(tea.KeyTab), tuitest.Key(tea.KeyTab), tuitest.Key(tea.KeyRight))
	assert.Equal(t, board.PriorityHigh, m.form.priority)

	m = press(t, m, tuitest.Key(tea.KeyEnter))
	assert.Nil(t, m.form)
	assert.Empty(t, mod.AddFormColumn())

	task, ok := findTask(mod, "t100")
	require.True(t, ok)
	assert.Equal(t, "Ship", task.Title)
	assert.Equal(t, board.StatusInProgress, task.Status)
	assert.Equal(t, board.PriorityHigh, task.Priority)
	assert.Equal(t, 1, m.focusCard)
}

func TestModel_AddTaskRequiresTitle(t *testing.T) {
	m, mod := newTestModel(t)

	m = press(t, m, tuitest.Text("a"), tuitest.Key(tea.KeyEnter))
	assert.NotNil(t, m.form)
	assert.Equal(t, board.StatusPending, mod.AddFormColumn())
	require.True(t, m.toasts.HasToasts())
	assert.Equal(t, notify.LevelWarning, m.toasts.Toasts()[0].notification.Level)
	assert.Len(t, mod.Tasks(), 7)

	m = press(t, m, tuitest.Key(tea.KeyEscape))
	assert.Nil(t, m.form)
	assert.Empty(t, mod.AddFormColumn())
}

func TestModel_CyclePriority(t *testing.T) {
	m, mod := newTestModel(t)

	press(t, m, tuitest.Text("p"))

	task, ok := findTask(mod, "t1")
	require.True(t, ok)
	assert.Equal(t, board.PriorityLow, task.Priority)
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tuitest.Text("?"))
	require.NotNil(t, m.help)
	assert.Contains(t, tuitest.StripANSI(m.render()), helpTitle)

	m = press(t, m, tuitest.Key(tea.KeyEscape))
	assert.Nil(t, m.help)
}

func TestModel_RelayMessageBecomesToast(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(RelayMsg{Message: "deploy at 10"})
	m = updated.(Model)

	require.True(t, m.toasts.HasToasts())
	assert.Equal(t, "deploy at 10", m.toasts.Toasts()[0].notification.Message)
}

func TestModel_NotificationMsg(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(NotificationMsg{Notification: notify.Notification{Level: notify.LevelInfo, Message: "task added"}})
	m = updated.(Model)

	assert.NotNil(t, cmd)
	assert.True(t, m.toasts.Ticking())
	assert.Contains(t, tuitest.StripANSI(m.render()), "task added")
}

func TestModel_ConfigReloadAppliesTheme(t *testing.T) {
	m, _ := newTestModel(t)
	t.Cleanup(func() {
		p, _ := styles.GetPalette(styles.DefaultTheme)
		styles.SetTheme(p)
	})

	var other string
	for _, name := range styles.ThemeNames() {
		if name != styles.DefaultTheme {
			other = name
			break
		}
	}
	require.NotEmpty(t, other)

	cfg := config.DefaultConfig()
	cfg.TUI.Theme = other
	m.Update(ConfigMsg{Config: &cfg})

	want, _ := styles.GetPalette(other)
	assert.Equal(t, want, styles.CurrentPalette)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tuitest.Text("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFeed_SendDropsWhenFull(t *testing.T) {
	f := NewFeed(1)
	assert.True(t, f.Send(RelayMsg{Message: "a"}))
	assert.False(t, f.Send(RelayMsg{Message: "b"}))

	msg := waitForFeed(f)()
	assert.Equal(t, RelayMsg{Message: "a"}, msg)
	assert.Nil(t, waitForFeed(nil))
}

func TestCardBoxes(t *testing.T) {
	m, _ := newTestModel(t)
	col := m.focusedColumn()

	boxes := cardBoxes(col, "t2")
	require.Len(t, boxes, 2)
	assert.Equal(t, "t1", boxes[0].TaskID)
	assert.Equal(t, "t7", boxes[1].TaskID)
	assert.Equal(t, float64(cardUnit), boxes[1].Top)

	assert.Equal(t, "t7", dnd.InsertBefore(slotY(1), boxes, "t2"))
	assert.Empty(t, dnd.InsertBefore(slotY(2), boxes, "t2"))
}
