package board

import (
	"context"
	"encoding/json"
	"fmt"
)

// Inbound action types accepted by Apply.
const (
	ActionAddTask  = "add-task"
	ActionMoveTask = "move-task"
)

// Action is a command sent to the board by its host.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AddTaskPayload is the payload of an add-task action. Every field is optional.
type AddTaskPayload struct {
	Title    string `json:"title,omitempty"`
	Desc     string `json:"desc,omitempty"`
	Status   string `json:"status,omitempty"`
	Assignee string `json:"assignee,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// MoveTaskPayload is the payload of a move-task action. The task is resolved
// by TaskID first, then by Title.
type MoveTaskPayload struct {
	TaskID string `json:"taskId,omitempty"`
	Title  string `json:"title,omitempty"`
	To     string `json:"to"`
}

// NewAction builds an Action with payload encoded as JSON.
func NewAction(actionType string, payload any) (Action, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Action{}, fmt.Errorf("encode %s payload: %w", actionType, err)
	}
	return Action{Type: actionType, Payload: data}, nil
}

// Apply runs a host action with the same semantics as the interactive paths.
// A move-task whose task cannot be resolved, or that names no target, does
// nothing.
func (s *Store) Apply(ctx context.Context, action Action) error {
	switch action.Type {
	case ActionAddTask:
		var p AddTaskPayload
		if err := decodePayload(action, &p); err != nil {
			return err
		}
		task := Task{
			Title:    p.Title,
			Desc:     p.Desc,
			Status:   Status(p.Status),
			Assignee: p.Assignee,
			Priority: Priority(p.Priority),
		}
		if task.Title == "" {
			task.Title = "New Task"
		}
		if task.Status == "" {
			task.Status = StatusPending
		}
		_, err := s.add(ctx, task)
		return err

	case ActionMoveTask:
		var p MoveTaskPayload
		if err := decodePayload(action, &p); err != nil {
			return err
		}
		if p.To == "" {
			return nil
		}
		task, ok := s.resolve(p.TaskID, p.Title)
		if !ok {
			return nil
		}
		return s.Move(ctx, task.ID, Status(p.To), "")

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
}

func (s *Store) resolve(id, title string) (Task, bool) {
	if id != "" {
		if t, ok := s.Find(id); ok {
			return t, true
		}
	}
	if title == "" {
		return Task{}, false
	}
	for _, t := range s.tasks {
		if t.Title == title {
			return t, true
		}
	}
	return Task{}, false
}

func decodePayload(action Action, v any) error {
	if len(action.Payload) == 0 || string(action.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(action.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", action.Type, err)
	}
	return nil
}
