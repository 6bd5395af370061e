package dnd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/board"
)

type move struct {
	TaskID   string
	Status   board.Status
	BeforeID string
}

type fakeMover struct {
	moves []move
	err   error
}

func (f *fakeMover) Move(_ context.Context, taskID string, status board.Status, beforeID string) error {
	f.moves = append(f.moves, move{TaskID: taskID, Status: status, BeforeID: beforeID})
	return f.err
}

// three 40px cards stacked with 8px gaps: mids at 20, 68, 116
var pendingCards = []CardBox{
	{TaskID: "t1", Top: 0, Height: 40},
	{TaskID: "t2", Top: 48, Height: 40},
	{TaskID: "t7", Top: 96, Height: 40},
}

func TestInsertBefore(t *testing.T) {
	tests := []struct {
		name  string
		y     float64
		skip  string
		cards []CardBox
		want  string
	}{
		{name: "above first", y: -5, cards: pendingCards, want: "t1"},
		{name: "exactly at midpoint", y: 20, cards: pendingCards, want: "t1"},
		{name: "just past midpoint", y: 20.5, cards: pendingCards, want: "t2"},
		{name: "between cards", y: 44, cards: pendingCards, want: "t2"},
		{name: "below last", y: 200, cards: pendingCards, want: ""},
		{name: "dragged card skipped", y: 10, skip: "t1", cards: pendingCards, want: "t2"},
		{name: "no cards", y: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertBefore(tt.y, tt.cards, tt.skip))
		})
	}
}

func TestController_DropAtMidpointInsertsBefore(t *testing.T) {
	ctx := context.Background()
	mover := &fakeMover{}
	c := New(mover)

	require.True(t, c.DragStart("t4"))
	c.DragOver(board.StatusPending, 68, pendingCards)

	v := c.Visual()
	assert.Equal(t, Dragging, v.Phase)
	assert.Equal(t, board.StatusPending, v.Highlight)
	require.NotNil(t, v.Placeholder)
	assert.Equal(t, Placeholder{Column: board.StatusPending, BeforeTaskID: "t2"}, *v.Placeholder)

	require.NoError(t, c.Drop(ctx, board.StatusPending))
	assert.Equal(t, []move{{TaskID: "t4", Status: board.StatusPending, BeforeID: "t2"}}, mover.moves)
	assert.Equal(t, Visual{Phase: Idle}, c.Visual())
}

func TestController_DropBelowLastAppends(t *testing.T) {
	mover := &fakeMover{}
	c := New(mover)

	c.DragStart("t1")
	c.DragOver(board.StatusDone, 500, pendingCards)
	require.NoError(t, c.Drop(context.Background(), board.StatusDone))

	assert.Equal(t, []move{{TaskID: "t1", Status: board.StatusDone}}, mover.moves)
}

func TestController_SingleHighlight(t *testing.T) {
	c := New(&fakeMover{})
	c.DragStart("t1")

	c.DragOver(board.StatusPending, 0, pendingCards)
	c.DragOver(board.StatusBlocked, 0, nil)

	v := c.Visual()
	assert.Equal(t, board.StatusBlocked, v.Highlight)
	assert.Equal(t, board.StatusBlocked, v.Placeholder.Column)
	assert.Empty(t, v.Placeholder.BeforeTaskID)
}

func TestController_DragLeave(t *testing.T) {
	c := New(&fakeMover{})
	c.DragStart("t1")
	c.DragOver(board.StatusDone, 0, pendingCards)

	c.DragLeave(board.StatusDone, true)
	assert.Equal(t, board.StatusDone, c.Visual().Highlight, "moving within the column keeps state")

	c.DragLeave(board.StatusPending, false)
	assert.Equal(t, board.StatusDone, c.Visual().Highlight, "leaving another column keeps state")

	c.DragLeave(board.StatusDone, false)
	v := c.Visual()
	assert.Empty(t, v.Highlight)
	assert.Nil(t, v.Placeholder)
	assert.Equal(t, Dragging, v.Phase)
}

func TestController_DropWithoutPlaceholderInColumn(t *testing.T) {
	mover := &fakeMover{}
	c := New(mover)
	c.DragStart("t1")
	c.DragOver(board.StatusPending, 0, pendingCards)

	require.NoError(t, c.Drop(context.Background(), board.StatusDone))
	assert.Equal(t, []move{{TaskID: "t1", Status: board.StatusDone}}, mover.moves)
}

func TestController_Cancel(t *testing.T) {
	tests := []struct {
		name string
		end  func(c *Controller)
	}{
		{name: "drag end", end: func(c *Controller) { c.DragEnd() }},
		{name: "drop outside columns", end: func(c *Controller) { _ = c.Drop(context.Background(), "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mover := &fakeMover{}
			c := New(mover)
			c.DragStart("t1")
			c.DragOver(board.StatusDone, 0, pendingCards)

			tt.end(c)

			assert.Empty(t, mover.moves)
			assert.Equal(t, Visual{Phase: Idle}, c.Visual())
		})
	}
}

func TestController_IdleInputsIgnored(t *testing.T) {
	mover := &fakeMover{}
	c := New(mover)

	c.DragOver(board.StatusDone, 0, pendingCards)
	assert.Nil(t, c.Visual().Placeholder)

	require.NoError(t, c.Drop(context.Background(), board.StatusDone))
	assert.Empty(t, mover.moves)

	assert.False(t, c.DragStart(""))
	assert.True(t, c.DragStart("t1"))
	assert.False(t, c.DragStart("t2"), "one gesture at a time")
}

func TestController_DropErrorStillResets(t *testing.T) {
	mover := &fakeMover{err: errors.New("boom")}
	c := New(mover)
	c.DragStart("t1")

	require.Error(t, c.Drop(context.Background(), board.StatusDone))
	assert.Equal(t, Idle, c.Phase())
}
