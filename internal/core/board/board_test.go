package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/kv"
	"github.com/colonyops/taskboard/internal/data/stores"
)

type emitted struct {
	Type    string
	Payload any
}

type recorder struct {
	events []emitted
}

func (r *recorder) emit(eventType string, payload any) {
	r.events = append(r.events, emitted{Type: eventType, Payload: payload})
}

func (r *recorder) ofType(eventType string) []emitted {
	var out []emitted
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// failingKV rejects every write and reports every read as an I/O failure.
type failingKV struct{ kv.KV }

var errQuota = errors.New("quota exceeded")

func (failingKV) Get(context.Context, string) (string, error) { return "", errQuota }
func (failingKV) Set(context.Context, string, string) error   { return errQuota }
func (failingKV) Has(context.Context, string) (bool, error)   { return false, errQuota }
func (failingKV) ListKeys(context.Context) ([]string, error)  { return nil, errQuota }
func (failingKV) Delete(context.Context, string) error        { return errQuota }

func newStore(t *testing.T, store kv.KV) (*board.Store, *recorder) {
	t.Helper()
	s := board.NewStore(board.NewPersistence(store, zerolog.Nop()))
	rec := &recorder{}
	s.SetEmitter(rec.emit)
	s.Load(context.Background())
	return s, rec
}

func ids(tasks []board.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestPersistence_EmptyStoreSeeds(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKV()
	p := board.NewPersistence(store, zerolog.Nop())

	tasks := p.Load(ctx)
	assert.Equal(t, board.Seed(), tasks)

	version, err := store.Get(ctx, board.KeyVersion)
	require.NoError(t, err)
	assert.Equal(t, "1", version)

	has, err := store.Has(ctx, board.KeyTasks)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPersistence_VersionMismatchReseeds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		version string
		tasks   string
	}{
		{name: "stale version", version: "0", tasks: `[{"id":"t1","title":"x","status":"done"}]`},
		{name: "garbage version", version: "one", tasks: `[]`},
		{name: "missing tasks", version: "1"},
		{name: "malformed tasks", version: "1", tasks: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := stores.NewMemoryKV()
			require.NoError(t, store.Set(ctx, board.KeyVersion, tt.version))
			if tt.tasks != "" {
				require.NoError(t, store.Set(ctx, board.KeyTasks, tt.tasks))
			}

			got := board.NewPersistence(store, zerolog.Nop()).Load(ctx)
			assert.Equal(t, board.Seed(), got)

			version, err := store.Get(ctx, board.KeyVersion)
			require.NoError(t, err)
			assert.Equal(t, "1", version)
		})
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKV()
	p := board.NewPersistence(store, zerolog.Nop())
	p.Load(ctx)

	want := []board.Task{
		{ID: "t9", Title: "B", Status: board.StatusDone, Priority: board.PriorityLow},
		{ID: "t3", Title: "A", Desc: "<b>", Status: board.StatusBlocked, Assignee: "Kim", Priority: board.PriorityHigh},
	}
	p.Save(ctx, want)

	assert.Equal(t, want, p.Load(ctx))
}

func TestPersistence_SeedIsDeepCopy(t *testing.T) {
	a := board.Seed()
	a[0].Title = "changed"
	assert.Equal(t, "Run final staging smoke tests", board.Seed()[0].Title)
}

func TestPersistence_FailuresAreSwallowed(t *testing.T) {
	s, _ := newStore(t, failingKV{})

	assert.Equal(t, board.Seed(), s.Tasks())

	task, err := s.Add(context.Background(), board.StatusDone, "Still works", "", "")
	require.NoError(t, err)
	assert.Equal(t, "t100", task.ID)
	assert.Len(t, s.Tasks(), 8)
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		tasks []board.Task
		want  int
	}{
		{name: "empty", want: 100},
		{name: "seed", tasks: board.Seed(), want: 100},
		{name: "higher suffix", tasks: []board.Task{{ID: "t1"}, {ID: "t150"}, {ID: "t7"}}, want: 151},
		{name: "non numeric ignored", tasks: []board.Task{{ID: "tx"}, {ID: "t104"}}, want: 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, board.NextID(tt.tasks))
		})
	}
}

func TestStore_AddAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	seen := map[string]bool{}
	for _, task := range s.Tasks() {
		seen[task.ID] = true
	}

	for i := 0; i < 5; i++ {
		task, err := s.Add(ctx, board.StatusInProgress, "Task", "", board.PriorityMedium)
		require.NoError(t, err)
		assert.False(t, seen[task.ID], "id %s collides", task.ID)
		seen[task.ID] = true

		col := s.TasksFor(board.StatusInProgress)
		assert.Equal(t, task.ID, col[len(col)-1].ID)
	}
	assert.Len(t, rec.ofType(board.EventTaskAdded), 5)
}

func TestStore_AddShipV2(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	task, err := s.Add(ctx, board.StatusBlocked, "Ship v2", "", board.PriorityLow)
	require.NoError(t, err)

	col := s.TasksFor(board.StatusBlocked)
	require.NotEmpty(t, col)
	last := col[len(col)-1]
	assert.Equal(t, task.ID, last.ID)
	assert.Equal(t, "Ship v2", last.Title)
	assert.Equal(t, board.PriorityLow, last.Priority)

	added := rec.ofType(board.EventTaskAdded)
	require.Len(t, added, 1)
	assert.Equal(t, board.TaskAdded{
		TaskID:   task.ID,
		Title:    "Ship v2",
		Status:   board.StatusBlocked,
		Priority: board.PriorityLow,
	}, added[0].Payload)
}

func TestStore_AddDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	task, err := s.Add(ctx, board.StatusPending, "No priority", "", "")
	require.NoError(t, err)
	assert.Equal(t, board.PriorityMedium, task.Priority)

	_, err = s.Add(ctx, board.Status("archived"), "Nope", "", "")
	require.ErrorIs(t, err, board.ErrInvalidStatus)
	assert.Len(t, s.Tasks(), 8)
	assert.Len(t, rec.events, 1)
}

func TestStore_AddSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKV()

	s, _ := newStore(t, store)
	task, err := s.Add(ctx, board.StatusDone, "Persisted", "", "")
	require.NoError(t, err)

	reloaded, _ := newStore(t, store)
	assert.Equal(t, s.Tasks(), reloaded.Tasks())
	assert.Equal(t, 101, reloaded.NextID())

	_, ok := reloaded.Find(task.ID)
	assert.True(t, ok)
}

func TestStore_MoveBefore(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	require.NoError(t, s.Move(ctx, "t7", board.StatusDone, "t3"))

	assert.Equal(t, []string{"t1", "t2", "t7", "t3", "t4", "t5", "t6"}, ids(s.Tasks()))
	task, _ := s.Find("t7")
	assert.Equal(t, board.StatusDone, task.Status)

	moved := rec.ofType(board.EventTaskMoved)
	require.Len(t, moved, 1)
	assert.Equal(t, board.TaskMoved{TaskID: "t7", Title: "Post launch announcement in #general", From: board.StatusPending, To: board.StatusDone}, moved[0].Payload)
}

func TestStore_MoveMissingBeforeAppends(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, stores.NewMemoryKV())

	require.NoError(t, s.Move(ctx, "t2", board.StatusBlocked, "t999"))
	assert.Equal(t, []string{"t1", "t3", "t4", "t5", "t6", "t7", "t2"}, ids(s.Tasks()))
}

func TestStore_MoveSameStatusDoesNotEmit(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	require.NoError(t, s.Move(ctx, "t2", board.StatusPending, "t1"))

	assert.Equal(t, []string{"t2", "t1", "t3", "t4", "t5", "t6", "t7"}, ids(s.Tasks()))
	assert.Empty(t, rec.ofType(board.EventTaskMoved))
}

func TestStore_MoveSameColumnWithoutTargetGoesToGlobalEnd(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	require.NoError(t, s.Move(ctx, "t1", board.StatusPending, ""))

	assert.Equal(t, []string{"t2", "t3", "t4", "t5", "t6", "t7", "t1"}, ids(s.Tasks()))
	assert.Empty(t, rec.events)
}

func TestStore_MoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKV()
	s, rec := newStore(t, store)

	changes := 0
	s.OnChange(func() { changes++ })

	before, err := store.Get(ctx, board.KeyTasks)
	require.NoError(t, err)

	require.NoError(t, s.Move(ctx, "t404", board.StatusDone, ""))

	after, err := store.Get(ctx, board.KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, board.Seed(), s.Tasks())
	assert.Zero(t, changes)
	assert.Empty(t, rec.events)
}

func TestStore_MoveInvalidStatus(t *testing.T) {
	s, _ := newStore(t, stores.NewMemoryKV())

	err := s.Move(context.Background(), "t1", board.Status("later"), "")
	require.ErrorIs(t, err, board.ErrInvalidStatus)
	assert.Equal(t, board.Seed(), s.Tasks())
}

func TestStore_MoveT1ToDone(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	require.NoError(t, s.Move(ctx, "t1", board.StatusDone, ""))

	done := s.TasksFor(board.StatusDone)
	assert.Equal(t, []string{"t3", "t5", "t1"}, ids(done))
	assert.Equal(t, board.StatusDone, done[2].Status)

	require.Len(t, rec.events, 1)
	payload, ok := rec.events[0].Payload.(board.TaskMoved)
	require.True(t, ok)
	assert.Equal(t, board.StatusPending, payload.From)
	assert.Equal(t, board.StatusDone, payload.To)
}

func TestStore_CyclePriority(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, stores.NewMemoryKV())

	// t1 starts high
	got, ok := s.CyclePriority(ctx, "t1")
	require.True(t, ok)
	assert.Equal(t, board.PriorityLow, got)

	got, _ = s.CyclePriority(ctx, "t1")
	assert.Equal(t, board.PriorityMedium, got)

	got, _ = s.CyclePriority(ctx, "t1")
	assert.Equal(t, board.PriorityHigh, got)

	_, ok = s.CyclePriority(ctx, "missing")
	assert.False(t, ok)
	assert.Empty(t, rec.events)
}

func TestPriority_Next(t *testing.T) {
	assert.Equal(t, board.PriorityMedium, board.PriorityLow.Next())
	assert.Equal(t, board.PriorityHigh, board.PriorityMedium.Next())
	assert.Equal(t, board.PriorityLow, board.PriorityHigh.Next())
	assert.Equal(t, board.PriorityLow, board.Priority("").Next())
}

func TestStore_NoEmitterIsFine(t *testing.T) {
	ctx := context.Background()
	s := board.NewStore(board.NewPersistence(stores.NewMemoryKV(), zerolog.Nop()))
	s.Load(ctx)

	_, err := s.Add(ctx, board.StatusPending, "quiet", "", "")
	require.NoError(t, err)
	require.NoError(t, s.Move(ctx, "t1", board.StatusDone, ""))
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKV()
	s, _ := newStore(t, store)
	_, err := s.Add(ctx, board.StatusPending, "x", "", "")
	require.NoError(t, err)

	s.Reset()

	assert.Empty(t, s.Tasks())
	assert.Equal(t, 100, s.NextID())

	has, err := store.Has(ctx, board.KeyTasks)
	require.NoError(t, err)
	assert.True(t, has, "reset leaves storage alone")
}
