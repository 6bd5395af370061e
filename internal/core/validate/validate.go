// Package validate provides shared input validation for board commands and
// forms.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/taskboard/internal/core/board"
)

// TaskTitle validates a title is non-empty after trimming whitespace.
func TaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// TaskTitleField returns a criterio validator for task titles.
func TaskTitleField(field, title string) error {
	return criterio.Run(field, title, TaskTitle)
}

// Status validates a column identifier.
func Status(raw string) error {
	_, err := board.ParseStatus(raw)
	return err
}

// Priority validates a priority name. Empty is accepted and leaves the task
// without a badge.
func Priority(raw string) error {
	if raw == "" {
		return nil
	}
	for _, p := range board.Priorities() {
		if string(p) == raw {
			return nil
		}
	}
	return fmt.Errorf("priority %q must be one of low, medium, high", raw)
}

// NewTask validates the fields of a task created from user input.
func NewTask(title, status, priority string) error {
	return criterio.ValidateStruct(
		TaskTitleField("title", title),
		criterio.Run("status", status, Status),
		criterio.Run("priority", priority, Priority),
	)
}
