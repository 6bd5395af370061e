// Package view turns board state into a render tree. Render is pure; adapters
// such as HTML or the terminal UI draw the tree.
package view

import "github.com/colonyops/taskboard/internal/core/board"

// State is everything the renderer reads.
type State struct {
	Tasks         []board.Task
	AddFormColumn board.Status // column with an open add form, empty for none
}

// Board is the full render tree.
type Board struct {
	Columns []Column
}

// Column is one rendered board column.
type Column struct {
	ID          board.Status
	Label       string
	Marker      string
	Count       int
	AddFormOpen bool
	Cards       []Card
}

// Card is one rendered task.
type Card struct {
	TaskID   string
	Title    string
	Desc     string
	Assignee string
	Priority board.Priority
}

// Render builds the board for state. It always produces all four columns.
func Render(state State) Board {
	b := Board{Columns: make([]Column, 0, len(board.Columns))}
	for _, c := range board.Columns {
		col := Column{
			ID:          c.ID,
			Label:       c.Label,
			Marker:      c.Marker,
			AddFormOpen: state.AddFormColumn == c.ID,
		}
		for _, t := range state.Tasks {
			if t.Status != c.ID {
				continue
			}
			col.Cards = append(col.Cards, Card{
				TaskID:   t.ID,
				Title:    t.Title,
				Desc:     t.Desc,
				Assignee: t.Assignee,
				Priority: t.Priority,
			})
		}
		col.Count = len(col.Cards)
		b.Columns = append(b.Columns, col)
	}
	return b
}

// Column returns the rendered column with the given id.
func (b Board) Column(id board.Status) (Column, bool) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// CardIndex returns the position of taskID within the column, or -1.
func (c Column) CardIndex(taskID string) int {
	for i, card := range c.Cards {
		if card.TaskID == taskID {
			return i
		}
	}
	return -1
}
