// Package tui is the terminal front end of the task board. It drives a
// host.Module with keyboard events and draws its render tree.
package tui

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/dnd"
	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/host"
	"github.com/colonyops/taskboard/internal/tui/components"
)

//go:embed help.md
var helpGuide string

const helpTitle = "Help / User Guide"

// surface caches what the module last drew and the messages it was asked to
// show. It is only touched from the update loop.
type surface struct {
	board  view.Board
	visual dnd.Visual
	notes  []string
}

func (s *surface) Render(b view.Board, v dnd.Visual) {
	s.board = b
	s.visual = v
}

func (s *surface) Notify(message string) {
	s.notes = append(s.notes, message)
}

func (s *surface) drain() []string {
	notes := s.notes
	s.notes = nil
	return notes
}

// pointer is the keyboard stand-in for the mouse during a drag: a column
// and a slot between that column's remaining cards.
type pointer struct {
	col  int
	slot int
}

// Options configures the TUI.
type Options struct {
	Module *host.Module
	Feed   Feed
	Keys   *KeyMap
}

// Model is the Bubble Tea model of the board.
type Model struct {
	mod     *host.Module
	surface *surface
	feed    Feed
	keys    KeyMap

	width  int
	height int

	focusCol  int
	focusCard int

	dragging bool
	ptr      pointer

	form *addForm
	help *components.HelpDialog

	toasts    *ToastController
	toastView *ToastView
}

// New attaches the model's surface to opts.Module. The module must be
// initialized by the caller.
func New(opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	s := &surface{}
	opts.Module.SetSurface(s)
	s.board = opts.Module.Board()
	s.visual = opts.Module.Visual()

	toasts := NewToastController()
	return Model{
		mod:       opts.Module,
		surface:   s,
		feed:      opts.Feed,
		keys:      keys,
		width:     100,
		height:    30,
		toasts:    toasts,
		toastView: NewToastView(toasts),
	}
}

// Init starts listening to the feed.
func (m Model) Init() tea.Cmd {
	return waitForFeed(m.feed)
}

// Update handles input and background messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if !m.toasts.HasToasts() {
			m.toasts.SetTicking(false)
			return m, nil
		}
		return m, scheduleToastTick()

	case NotificationMsg:
		cmd := m.push(msg.Notification)
		return m, tea.Batch(cmd, waitForFeed(m.feed))

	case RelayMsg:
		m.mod.OnMessage(msg.Message)
		var cmds []tea.Cmd
		for _, note := range m.surface.drain() {
			cmds = append(cmds, m.push(notify.Notification{Level: notify.LevelInfo, Message: note}))
		}
		cmds = append(cmds, waitForFeed(m.feed))
		return m, tea.Batch(cmds...)

	case ConfigMsg:
		if msg.Config != nil {
			if p, ok := styles.GetPalette(msg.Config.TUI.Theme); ok {
				styles.SetTheme(p)
			}
		}
		return m, waitForFeed(m.feed)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m, m.form.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.help != nil:
		if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
			m.help = nil
		}
		return m, nil
	case m.form != nil:
		return m.handleFormKey(msg)
	case m.dragging:
		return m.handleDragKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m Model) handleBoardKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help = components.NewHelpDialog(helpTitle, helpGuide, m.keys.HelpSections(), min(m.width-8, 72))
	case key.Matches(msg, m.keys.Left):
		m.focusCol = max(m.focusCol-1, 0)
		m.clampFocus()
	case key.Matches(msg, m.keys.Right):
		m.focusCol = min(m.focusCol+1, len(board.Columns)-1)
		m.clampFocus()
	case key.Matches(msg, m.keys.Up):
		m.focusCard = max(m.focusCard-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.focusCard++
		m.clampFocus()
	case key.Matches(msg, m.keys.Grab):
		return m.startDrag()
	case key.Matches(msg, m.keys.Priority):
		if card, ok := m.focused(); ok {
			return m, m.dispatch(host.PriorityClick{TaskID: card.TaskID})
		}
	case key.Matches(msg, m.keys.Add):
		column := board.Columns[m.focusCol].ID
		if cmd := m.dispatch(host.AddClick{Column: column}); cmd != nil {
			return m, cmd
		}
		form, cmd := newAddForm(column, m.layout().columnWidth(len(board.Columns))-6)
		m.form = form
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		return m, m.dispatch(host.AddCancel{})
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.Move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.Move(-1)
	case key.Matches(msg, m.keys.Drop):
		if cmd := m.dispatch(m.form.Submit()); cmd != nil {
			return m, cmd
		}
		if m.mod.AddFormColumn() != "" {
			return m, m.push(notify.Notification{Level: notify.LevelWarning, Message: "A task title is required"})
		}
		m.form = nil
		m.focusLast()
		return m, nil
	}

	if m.form.focus == fieldPriority {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.form.CyclePriority(false)
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Grab):
			m.form.CyclePriority(true)
		}
		return m, nil
	}
	return m, m.form.Update(msg)
}

func (m Model) startDrag() (tea.Model, tea.Cmd) {
	card, ok := m.focused()
	if !ok {
		return m, nil
	}
	if cmd := m.dispatch(host.DragStart{TaskID: card.TaskID}); cmd != nil {
		return m, cmd
	}
	if m.mod.Visual().Phase != dnd.Dragging {
		return m, nil
	}

	m.dragging = true
	m.ptr = pointer{col: m.focusCol, slot: m.focusCard}
	return m, m.dragOver()
}

func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.dragging = false
		return m, m.dispatch(host.DragEnd{})

	case key.Matches(msg, m.keys.Drop):
		column := board.Columns[m.ptr.col].ID
		dragged := m.mod.Visual().DraggingID
		m.dragging = false
		cmd := m.dispatch(host.Drop{Column: column})
		if endCmd := m.dispatch(host.DragEnd{}); cmd == nil {
			cmd = endCmd
		}
		m.focusTask(dragged)
		return m, cmd

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		next := m.ptr.col - 1
		if key.Matches(msg, m.keys.Right) {
			next = m.ptr.col + 1
		}
		if next < 0 || next >= len(board.Columns) {
			return m, nil
		}
		leave := m.dispatch(host.DragLeave{Column: board.Columns[m.ptr.col].ID})
		m.ptr.col = next
		m.ptr.slot = min(m.ptr.slot, len(m.boxes(next)))
		return m, tea.Batch(leave, m.dragOver())

	case key.Matches(msg, m.keys.Up):
		m.ptr.slot = max(m.ptr.slot-1, 0)
		return m, m.dragOver()

	case key.Matches(msg, m.keys.Down):
		m.ptr.slot = min(m.ptr.slot+1, len(m.boxes(m.ptr.col)))
		return m, m.dragOver()
	}
	return m, nil
}

func (m Model) dragOver() tea.Cmd {
	return m.dispatch(host.DragOver{
		Column:   board.Columns[m.ptr.col].ID,
		PointerY: slotY(m.ptr.slot),
		Cards:    m.boxes(m.ptr.col),
	})
}

func (m Model) boxes(col int) []dnd.CardBox {
	c, ok := m.surface.board.Column(board.Columns[col].ID)
	if !ok {
		return nil
	}
	return cardBoxes(c, m.mod.Visual().DraggingID)
}

// dispatch delivers ev to the module. Errors become a toast.
func (m Model) dispatch(ev host.Event) tea.Cmd {
	if err := m.mod.Dispatch(context.Background(), ev); err != nil {
		log.Error().Err(err).Str("event", string(ev.Kind())).Msg("board event failed")
		return m.push(notify.Notification{Level: notify.LevelError, Message: err.Error()})
	}
	return nil
}

func (m Model) push(n notify.Notification) tea.Cmd {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.toasts.Push(n)
	if m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) focusedColumn() view.Column {
	c, _ := m.surface.board.Column(board.Columns[m.focusCol].ID)
	return c
}

func (m Model) focused() (view.Card, bool) {
	c := m.focusedColumn()
	if m.focusCard < 0 || m.focusCard >= len(c.Cards) {
		return view.Card{}, false
	}
	return c.Cards[m.focusCard], true
}

func (m *Model) clampFocus() {
	n := len(m.focusedColumn().Cards)
	m.focusCard = max(min(m.focusCard, n-1), 0)
}

func (m *Model) focusLast() {
	m.focusCard = max(len(m.focusedColumn().Cards)-1, 0)
}

// focusTask moves focus to taskID wherever it now lives.
func (m *Model) focusTask(taskID string) {
	for i, c := range board.Columns {
		col, ok := m.surface.board.Column(c.ID)
		if !ok {
			continue
		}
		if j := col.CardIndex(taskID); j >= 0 {
			m.focusCol = i
			m.focusCard = j
			return
		}
	}
	m.clampFocus()
}

func (m Model) layout() boardLayout {
	return boardLayout{
		width:     m.width,
		focusCol:  m.focusCol,
		focusCard: m.focusCard,
		showFocus: !m.dragging,
		form:      m.form,
	}
}

func (m Model) helpBar() string {
	var hint string
	switch {
	case m.dragging:
		hint = "←→↑↓ move · enter drop · esc cancel"
	case m.form != nil:
		hint = "tab next field · ←→ priority · enter add · esc cancel"
	default:
		hint = "space grab · a add · p priority · ? help · q quit"
	}
	return styles.HelpBarStyle.Render(hint)
}

// View draws the board with toasts and the help overlay.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	header := styles.TitleStyle.Render(fmt.Sprintf("Task Board (%d tasks)", len(m.mod.Tasks())))
	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.layout().render(m.surface.board, m.surface.visual),
		m.helpBar(),
	)

	if m.help != nil {
		content = m.help.Overlay(content, m.width, m.height)
	}
	return m.toastView.Overlay(content, m.width, m.height)
}
