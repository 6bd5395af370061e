package board

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/kv"
)

const (
	// DataVersion is the schema version written next to the task sequence.
	DataVersion = 1

	KeyVersion = "task-board-version"
	KeyTasks   = "task-board-tasks"

	// FirstID is the id counter floor; generated ids start at t100.
	FirstID = 100
)

// Persistence reads and writes the task sequence to a KV. Every failure is
// logged and swallowed; the caller's in-memory copy stays authoritative.
type Persistence struct {
	store kv.KV
	tasks kv.JSON[[]Task]
	log   zerolog.Logger
}

// NewPersistence creates a Persistence over store.
func NewPersistence(store kv.KV, log zerolog.Logger) *Persistence {
	return &Persistence{store: store, tasks: kv.NewJSON[[]Task](store, KeyTasks), log: log}
}

// Load returns the saved sequence when the stored version matches DataVersion
// and the sequence decodes. In every other case it returns a copy of the seed
// dataset and persists it at the current version.
func (p *Persistence) Load(ctx context.Context) []Task {
	if tasks, ok := p.read(ctx); ok {
		return tasks
	}

	tasks := Seed()
	if err := p.store.Set(ctx, KeyVersion, strconv.Itoa(DataVersion)); err != nil {
		p.log.Error().Ctx(ctx).Err(err).Msg("failed to save task version")
	}
	p.Save(ctx, tasks)
	return tasks
}

func (p *Persistence) read(ctx context.Context) ([]Task, bool) {
	raw, err := p.store.Get(ctx, KeyVersion)
	if err != nil {
		if !kv.IsNotFound(err) {
			p.log.Error().Ctx(ctx).Err(err).Msg("failed to load tasks")
		}
		return nil, false
	}

	version, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || version != DataVersion {
		p.log.Debug().Ctx(ctx).Str("version", raw).Msg("task data version mismatch, reseeding")
		return nil, false
	}

	tasks, err := p.tasks.Load(ctx)
	if err != nil {
		if !kv.IsNotFound(err) {
			p.log.Error().Ctx(ctx).Err(err).Msg("failed to load tasks")
		}
		return nil, false
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, true
}

// Save writes the full sequence, replacing prior contents.
func (p *Persistence) Save(ctx context.Context, tasks []Task) {
	if tasks == nil {
		tasks = []Task{}
	}
	if err := p.tasks.Store(ctx, tasks); err != nil {
		p.log.Error().Ctx(ctx).Err(err).Msg("failed to save tasks")
	}
}

// NextID returns the counter value that follows every numeric id suffix in
// tasks, never less than FirstID.
func NextID(tasks []Task) int {
	next := FirstID
	for _, t := range tasks {
		n, err := strconv.Atoi(strings.TrimPrefix(t.ID, "t"))
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next
}
