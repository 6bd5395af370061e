// Package dnd interprets drag gestures over the board as ordered-insertion
// moves. It owns only transient gesture state; the task sequence stays in the
// board store.
package dnd

import (
	"context"

	"github.com/colonyops/taskboard/internal/core/board"
)

// Phase is the controller's gesture state.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// CardBox is the vertical extent of a rendered card inside a column body.
type CardBox struct {
	TaskID string
	Top    float64
	Height float64
}

// Mid is the vertical midpoint of the card.
func (b CardBox) Mid() float64 { return b.Top + b.Height/2 }

// Placeholder marks where the dragged card would land. An empty BeforeTaskID
// means the end of the column.
type Placeholder struct {
	Column       board.Status
	BeforeTaskID string
}

// Visual is the transient state a surface draws during a drag.
type Visual struct {
	Phase       Phase
	DraggingID  string
	Highlight   board.Status // at most one highlighted column
	Placeholder *Placeholder
}

// Mover applies a resolved drop.
type Mover interface {
	Move(ctx context.Context, taskID string, status board.Status, beforeID string) error
}

// Controller is the drag state machine: Idle, Dragging, then back to Idle
// through Drop or DragEnd.
type Controller struct {
	mover       Mover
	phase       Phase
	dragged     string
	highlight   board.Status
	placeholder *Placeholder
}

// New creates an idle controller that applies drops through mover.
func New(mover Mover) *Controller {
	return &Controller{mover: mover}
}

// DragStart captures the dragged task. It returns false if a drag is already
// in progress or taskID is empty.
func (c *Controller) DragStart(taskID string) bool {
	if c.phase == Dragging || taskID == "" {
		return false
	}
	c.phase = Dragging
	c.dragged = taskID
	return true
}

// DragOver highlights column and repositions the placeholder for pointerY.
// cards are the column's cards in document order; the dragged card is skipped.
func (c *Controller) DragOver(column board.Status, pointerY float64, cards []CardBox) {
	if c.phase != Dragging {
		return
	}
	c.highlight = column
	c.placeholder = &Placeholder{
		Column:       column,
		BeforeTaskID: InsertBefore(pointerY, cards, c.dragged),
	}
}

// DragLeave clears column's highlight and placeholder once the pointer is no
// longer inside it. Moving between children of the column passes inside=true.
func (c *Controller) DragLeave(column board.Status, inside bool) {
	if inside {
		return
	}
	if c.highlight == column {
		c.highlight = ""
	}
	if c.placeholder != nil && c.placeholder.Column == column {
		c.placeholder = nil
	}
}

// Drop resolves the insertion target in column and moves the dragged task.
// Dropping outside any column (empty column) or while idle only clears state.
func (c *Controller) Drop(ctx context.Context, column board.Status) error {
	if c.phase != Dragging || column == "" {
		c.reset()
		return nil
	}

	taskID := c.dragged
	var before string
	if c.placeholder != nil && c.placeholder.Column == column {
		before = c.placeholder.BeforeTaskID
	}
	c.reset()

	return c.mover.Move(ctx, taskID, column, before)
}

// DragEnd ends the gesture without a drop.
func (c *Controller) DragEnd() {
	c.reset()
}

// Phase reports the current gesture state.
func (c *Controller) Phase() Phase { return c.phase }

// Visual snapshots the transient state.
func (c *Controller) Visual() Visual {
	v := Visual{
		Phase:      c.phase,
		DraggingID: c.dragged,
		Highlight:  c.highlight,
	}
	if c.placeholder != nil {
		ph := *c.placeholder
		v.Placeholder = &ph
	}
	return v
}

func (c *Controller) reset() {
	c.phase = Idle
	c.dragged = ""
	c.highlight = ""
	c.placeholder = nil
}

// InsertBefore returns the id of the first card, in order and ignoring
// skipID, whose midpoint is at or below pointerY. An empty result means the
// end of the column. A pointer exactly on a midpoint inserts before that card.
func InsertBefore(pointerY float64, cards []CardBox, skipID string) string {
	for _, card := range cards {
		if card.TaskID == skipID {
			continue
		}
		if pointerY <= card.Mid() {
			return card.TaskID
		}
	}
	return ""
}
