package host

import (
	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/dnd"
)

// Kind identifies a UI event type.
type Kind string

const (
	KindDragStart     Kind = "dragstart"
	KindDragOver      Kind = "dragover"
	KindDragLeave     Kind = "dragleave"
	KindDrop          Kind = "drop"
	KindDragEnd       Kind = "dragend"
	KindAddClick      Kind = "add-click"
	KindAddCancel     Kind = "add-cancel"
	KindSubmit        Kind = "submit"
	KindPriorityClick Kind = "priority-click"
)

// Event is a UI event produced by a surface.
type Event interface {
	Kind() Kind
}

// DragStart begins dragging a card.
type DragStart struct {
	TaskID string
}

// DragOver reports the pointer over a column. Cards are the column's rendered
// card boxes in document order.
type DragOver struct {
	Column   board.Status
	PointerY float64
	Cards    []dnd.CardBox
}

// DragLeave reports the pointer leaving a column element. Inside is true when
// the pointer moved to another element within the same column.
type DragLeave struct {
	Column board.Status
	Inside bool
}

// Drop releases the dragged card over Column. An empty Column is a drop
// outside every column.
type Drop struct {
	Column board.Status
}

// DragEnd ends a drag gesture.
type DragEnd struct{}

// AddClick opens the add form on a column.
type AddClick struct {
	Column board.Status
}

// AddCancel closes the add form.
type AddCancel struct{}

// Submit submits the add form.
type Submit struct {
	Column   board.Status
	Title    string
	Desc     string
	Priority board.Priority
}

// PriorityClick clicks a card's priority badge.
type PriorityClick struct {
	TaskID string
}

func (DragStart) Kind() Kind     { return KindDragStart }
func (DragOver) Kind() Kind      { return KindDragOver }
func (DragLeave) Kind() Kind     { return KindDragLeave }
func (Drop) Kind() Kind          { return KindDrop }
func (DragEnd) Kind() Kind       { return KindDragEnd }
func (AddClick) Kind() Kind      { return KindAddClick }
func (AddCancel) Kind() Kind     { return KindAddCancel }
func (Submit) Kind() Kind        { return KindSubmit }
func (PriorityClick) Kind() Kind { return KindPriorityClick }
