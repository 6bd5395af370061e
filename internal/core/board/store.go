package board

import (
	"context"
	"fmt"
)

// Notification event types emitted by the store.
const (
	EventTaskAdded = "task:added"
	EventTaskMoved = "task:moved"
)

// TaskAdded is the payload of EventTaskAdded.
type TaskAdded struct {
	TaskID   string   `json:"taskId"`
	Title    string   `json:"title"`
	Desc     string   `json:"desc"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
}

// TaskMoved is the payload of EventTaskMoved.
type TaskMoved struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
	From   Status `json:"from"`
	To     Status `json:"to"`
}

// EmitFunc delivers an outbound notification to the host.
type EmitFunc func(eventType string, payload any)

// Store is the ordered task sequence. It is the single source of truth the
// view renders; every mutation persists the whole sequence, calls the change
// hook, then emits.
//
// Store is not safe for concurrent use. host.Module serializes access.
type Store struct {
	persist  *Persistence
	tasks    []Task
	nextID   int
	emit     EmitFunc
	onChange func()
}

// NewStore creates an empty store. Call Load to populate it.
func NewStore(persist *Persistence) *Store {
	return &Store{persist: persist, nextID: FirstID}
}

// SetEmitter attaches the notification sink. A nil fn disables notifications.
func (s *Store) SetEmitter(fn EmitFunc) { s.emit = fn }

// OnChange registers the hook called after every mutation, typically a render.
func (s *Store) OnChange(fn func()) { s.onChange = fn }

// Load replaces the sequence with the persisted one and derives the id counter.
func (s *Store) Load(ctx context.Context) {
	s.tasks = s.persist.Load(ctx)
	s.nextID = NextID(s.tasks)
	s.changed()
}

// Reset empties the sequence and resets the id counter. Storage is untouched.
func (s *Store) Reset() {
	s.tasks = nil
	s.nextID = FirstID
}

// Tasks returns a copy of the sequence in order.
func (s *Store) Tasks() []Task {
	return cloneTasks(s.tasks)
}

// TasksFor returns the tasks of one column in render order.
func (s *Store) TasksFor(status Status) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the task with the given id.
func (s *Store) Find(id string) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// NextID is the numeric suffix the next added task will receive.
func (s *Store) NextID() int { return s.nextID }

// Add appends a new task to the end of the sequence. Empty titles must be
// rejected by the caller. An empty priority becomes medium.
func (s *Store) Add(ctx context.Context, status Status, title, desc string, priority Priority) (Task, error) {
	return s.add(ctx, Task{
		Title:    title,
		Desc:     desc,
		Status:   status,
		Priority: priority,
	})
}

func (s *Store) add(ctx context.Context, task Task) (Task, error) {
	if !task.Status.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, task.Status)
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}

	task.ID = fmt.Sprintf("t%d", s.nextID)
	s.nextID++
	s.tasks = append(s.tasks, task)

	s.persist.Save(ctx, s.tasks)
	s.changed()
	s.notify(EventTaskAdded, TaskAdded{
		TaskID:   task.ID,
		Title:    task.Title,
		Desc:     task.Desc,
		Status:   task.Status,
		Priority: task.Priority,
	})
	return task, nil
}

// Move removes the task, sets its status and reinserts it immediately before
// beforeID when that task is present, otherwise at the end of the whole
// sequence. Unknown ids are a no-op. task:moved is emitted only when the
// status changed.
func (s *Store) Move(ctx context.Context, taskID string, status Status, beforeID string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	i := s.index(taskID)
	if i < 0 {
		return nil
	}

	task := s.tasks[i]
	from := task.Status
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	task.Status = status

	at := len(s.tasks)
	if beforeID != "" {
		if j := s.index(beforeID); j >= 0 {
			at = j
		}
	}
	s.tasks = append(s.tasks, Task{})
	copy(s.tasks[at+1:], s.tasks[at:])
	s.tasks[at] = task

	s.persist.Save(ctx, s.tasks)
	s.changed()
	if from != status {
		s.notify(EventTaskMoved, TaskMoved{
			TaskID: task.ID,
			Title:  task.Title,
			From:   from,
			To:     status,
		})
	}
	return nil
}

// CyclePriority advances the task's priority and returns the new value. It
// reports false for unknown ids.
func (s *Store) CyclePriority(ctx context.Context, taskID string) (Priority, bool) {
	i := s.index(taskID)
	if i < 0 {
		return "", false
	}
	s.tasks[i].Priority = s.tasks[i].Priority.Next()

	s.persist.Save(ctx, s.tasks)
	s.changed()
	return s.tasks[i].Priority, true
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Store) notify(eventType string, payload any) {
	if s.emit != nil {
		s.emit(eventType, payload)
	}
}
