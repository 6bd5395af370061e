// Package host embeds the task board into a front end. A Module owns one
// board instance: its store, drag controller and add-form state, and the UI
// listeners it registers on a Target.
package host

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/dnd"
	"github.com/colonyops/taskboard/internal/core/kv"
	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/core/view"
)

var (
	// ErrNotInitialized is returned when the module is used before Init or after Destroy.
	ErrNotInitialized = errors.New("board module is not initialized")
	// ErrAlreadyInitialized is returned by Init on a live module.
	ErrAlreadyInitialized = errors.New("board module is already initialized")
)

// Config identifies the board instance inside its host.
type Config struct {
	ID       string
	BasePath string
}

// Context is what the host hands to Init. Emit may be nil.
type Context struct {
	Config Config
	Emit   board.EmitFunc
}

// Surface draws the board. Render runs with the module lock held and must
// not call back into the module.
type Surface interface {
	Render(b view.Board, v dnd.Visual)
}

// Notifier is implemented by surfaces that can show host messages.
type Notifier interface {
	Notify(message string)
}

// Module is one embeddable board. All entry points are serialized, so the
// store sees a single mutator even when the front end uses goroutines.
type Module struct {
	mu      sync.Mutex
	kv      kv.KV
	target  *Target
	log     zerolog.Logger
	surface Surface

	hctx    Context
	scope   context.Context
	cancel  context.CancelFunc
	store   *board.Store
	drag    *dnd.Controller
	addForm board.Status
	last    view.Board
}

// New creates a module persisting to store and listening on target.
func New(store kv.KV, target *Target, log zerolog.Logger) *Module {
	return &Module{
		kv:     store,
		target: target,
		log:    log,
	}
}

// SetSurface attaches the surface drawn after every change.
func (m *Module) SetSurface(s Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surface = s
}

// Init loads the board, renders it and registers the UI listeners under one
// scope derived from ctx.
func (m *Module) Init(ctx context.Context, hctx Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return ErrAlreadyInitialized
	}

	m.hctx = hctx
	if hctx.Config.ID != "" {
		ctx = logging.WithBoardID(ctx, hctx.Config.ID)
	}
	m.scope, m.cancel = context.WithCancel(ctx)

	m.store = board.NewStore(board.NewPersistence(m.kv, m.log))
	m.store.SetEmitter(m.emit)
	m.drag = dnd.New(m.store)
	m.addForm = ""
	m.store.OnChange(m.render)
	m.store.Load(m.scope)

	m.listen()

	m.log.Debug().Ctx(m.scope).Int("tasks", len(m.store.Tasks())).Msg("board initialized")
	return nil
}

// Destroy releases every listener at once and resets in-memory state.
// Persisted storage is left as is.
func (m *Module) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return
	}
	m.log.Debug().Ctx(m.scope).Msg("board destroyed")
	m.cancel()
	m.cancel = nil
	m.scope = nil

	m.store.Reset()
	m.drag.DragEnd()
	m.addForm = ""
	m.last = view.Board{}
}

// OnAction applies a host command.
func (m *Module) OnAction(ctx context.Context, action board.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return ErrNotInitialized
	}
	ctx = m.withBoard(ctx)
	m.log.Debug().Ctx(ctx).Str("action", action.Type).Msg("action received")
	return m.store.Apply(ctx, action)
}

// OnMessage receives a host message. It is logged and shown by surfaces that
// implement Notifier.
func (m *Module) OnMessage(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Info().Ctx(m.scope).Str("message", message).Msg("task board received message")
	if n, ok := m.surface.(Notifier); ok {
		n.Notify(message)
	}
}

// Dispatch delivers a UI event to the registered listeners.
func (m *Module) Dispatch(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return ErrNotInitialized
	}
	return m.target.Dispatch(m.withBoard(ctx), ev)
}

// withBoard tags ctx with the board id so log lines written while handling
// a host call carry it.
func (m *Module) withBoard(ctx context.Context) context.Context {
	if m.hctx.Config.ID == "" {
		return ctx
	}
	return logging.WithBoardID(ctx, m.hctx.Config.ID)
}

// Board returns the last rendered board.
func (m *Module) Board() view.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Visual returns the drag controller's transient state.
func (m *Module) Visual() dnd.Visual {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drag == nil {
		return dnd.Visual{}
	}
	return m.drag.Visual()
}

// Tasks returns a copy of the task sequence.
func (m *Module) Tasks() []board.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	return m.store.Tasks()
}

// AddFormColumn returns the column with an open add form, if any.
func (m *Module) AddFormColumn() board.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addForm
}

// listen registers the board's UI listeners under the module scope.
func (m *Module) listen() {
	on := func(kind Kind, fn Listener) { m.target.On(m.scope, kind, fn) }

	on(KindDragStart, func(_ context.Context, ev Event) error {
		m.drag.DragStart(ev.(DragStart).TaskID)
		m.paint()
		return nil
	})
	on(KindDragOver, func(_ context.Context, ev Event) error {
		e := ev.(DragOver)
		m.drag.DragOver(e.Column, e.PointerY, e.Cards)
		m.paint()
		return nil
	})
	on(KindDragLeave, func(_ context.Context, ev Event) error {
		e := ev.(DragLeave)
		m.drag.DragLeave(e.Column, e.Inside)
		m.paint()
		return nil
	})
	on(KindDrop, func(ctx context.Context, ev Event) error {
		ctx = logging.WithTaskID(ctx, m.drag.Visual().DraggingID)
		err := m.drag.Drop(ctx, ev.(Drop).Column)
		m.paint()
		return err
	})
	on(KindDragEnd, func(_ context.Context, _ Event) error {
		m.drag.DragEnd()
		m.paint()
		return nil
	})
	on(KindAddClick, func(_ context.Context, ev Event) error {
		m.addForm = ev.(AddClick).Column
		m.render()
		return nil
	})
	on(KindAddCancel, func(_ context.Context, _ Event) error {
		m.addForm = ""
		m.render()
		return nil
	})
	on(KindSubmit, func(ctx context.Context, ev Event) error {
		return m.submit(ctx, ev.(Submit))
	})
	on(KindPriorityClick, func(ctx context.Context, ev Event) error {
		id := ev.(PriorityClick).TaskID
		m.store.CyclePriority(logging.WithTaskID(ctx, id), id)
		return nil
	})
}

// submit trims the form fields and adds the task; empty titles are ignored.
func (m *Module) submit(ctx context.Context, e Submit) error {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return nil
	}

	prev := m.addForm
	m.addForm = ""
	if _, err := m.store.Add(ctx, e.Column, title, strings.TrimSpace(e.Desc), e.Priority); err != nil {
		m.addForm = prev
		return err
	}
	return nil
}

func (m *Module) emit(eventType string, payload any) {
	m.log.Debug().Ctx(m.scope).Str("event", eventType).Msg("emit")
	if m.hctx.Emit != nil {
		m.hctx.Emit(eventType, payload)
	}
}

// render rebuilds the view tree from the store and paints it.
func (m *Module) render() {
	m.last = view.Render(view.State{
		Tasks:         m.store.Tasks(),
		AddFormColumn: m.addForm,
	})
	m.paint()
}

func (m *Module) paint() {
	if m.surface == nil {
		return
	}
	m.surface.Render(m.last, m.drag.Visual())
}
