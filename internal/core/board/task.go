// Package board holds the task model of the kanban board: the task sequence,
// its persisted form, and the operations that mutate it.
package board

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned when a status is not one of the board columns.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrUnknownAction is returned by Apply for an unrecognized action type.
	ErrUnknownAction = errors.New("unknown action type")
)

// Status is the column a task belongs to.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// Valid reports whether s names one of the board columns.
func (s Status) Valid() bool {
	for _, c := range Columns {
		if c.ID == s {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Priority ranks a task. The zero value renders as no badge.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// priorityCycle is the order CyclePriority walks through.
var priorityCycle = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Next returns the priority after p in the cycle low, medium, high. Anything
// outside the cycle advances to low.
func (p Priority) Next() Priority {
	for i, c := range priorityCycle {
		if c == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return PriorityLow
}

// Priorities lists the priorities in cycle order.
func Priorities() []Priority {
	out := make([]Priority, len(priorityCycle))
	copy(out, priorityCycle)
	return out
}

// Task is one card on the board. Field names match the persisted layout.
type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Desc     string   `json:"desc"`
	Status   Status   `json:"status"`
	Assignee string   `json:"assignee"`
	Priority Priority `json:"priority"`
}

// Column is static board configuration.
type Column struct {
	ID     Status
	Label  string
	Marker string
}

// Columns are the four board columns in display order.
var Columns = [4]Column{
	{ID: StatusPending, Label: "Pending", Marker: "pending"},
	{ID: StatusInProgress, Label: "In Progress", Marker: "inprogress"},
	{ID: StatusBlocked, Label: "Blocked", Marker: "blocked"},
	{ID: StatusDone, Label: "Done", Marker: "done"},
}

var seedTasks = []Task{
	{ID: "t1", Title: "Run final staging smoke tests", Desc: "Execute the full regression suite against staging before the 10 AM deploy.", Status: StatusPending, Assignee: "Alex R.", Priority: PriorityHigh},
	{ID: "t2", Title: "Prepare rollback runbook", Desc: "Document step-by-step rollback procedure including feature flag and DB migration revert.", Status: StatusPending, Assignee: "Alex R.", Priority: PriorityHigh},
	{ID: "t3", Title: "Send customer notification email", Desc: "Notify enterprise customers about the upcoming v2.0 release and expected downtime window.", Status: StatusDone, Assignee: "Marketing", Priority: PriorityMedium},
	{ID: "t4", Title: "Update API documentation", Desc: "Add docs for new endpoints introduced in v2.0.", Status: StatusInProgress, Assignee: "Jordan K.", Priority: PriorityMedium},
	{ID: "t5", Title: "Review onboarding flow copy", Desc: "Final copy review for the updated first-run experience.", Status: StatusDone, Assignee: "Sarah C.", Priority: PriorityLow},
	{ID: "t6", Title: "Deploy marketing landing page", Desc: "Blocked on engineering go/no-go decision at 9 AM.", Status: StatusBlocked, Assignee: "Marketing", Priority: PriorityMedium},
	{ID: "t7", Title: "Post launch announcement in #general", Desc: "Prepare Slack message for all-hands after successful deploy.", Status: StatusPending, Assignee: "Sarah C.", Priority: PriorityLow},
}

// Seed returns a fresh copy of the seed dataset.
func Seed() []Task {
	return cloneTasks(seedTasks)
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
