package view

import (
	"bytes"
	"html/template"

	"github.com/colonyops/taskboard/internal/core/board"
)

var boardTmpl = template.Must(template.New("board").Parse(`
{{- range .Columns}}
<div class="board-column" data-col="{{.ID}}">
  <div class="board-column-header">
    <span class="board-column-title">
      <span class="status-dot {{.Marker}}"></span>
      {{.Label}}
      <span class="board-column-count">{{.Count}}</span>
    </span>
    <button class="board-column-add" data-col="{{.ID}}" title="Add task">+</button>
  </div>
  <div class="board-column-body" data-col="{{.ID}}">
    {{- if .AddFormOpen}}
    <form class="add-task-form" data-col="{{.ID}}">
      <input type="text" class="input" name="title" placeholder="Task title" autocomplete="off" required />
      <input type="text" class="input" name="desc" placeholder="Description (optional)" autocomplete="off" />
      <select class="input" name="priority">
        {{- range $.Priorities}}
        <option value="{{.}}"{{if eq . "medium"}} selected{{end}}>{{.}}</option>
        {{- end}}
      </select>
      <div class="add-task-form-actions">
        <button type="submit" class="button button-primary">Add</button>
        <button type="button" class="button button-text add-task-cancel">Cancel</button>
      </div>
    </form>
    {{- end}}
    {{- range .Cards}}
    <div class="task-card" draggable="true" data-task-id="{{.TaskID}}">
      <div class="task-card-title">{{.Title}}</div>
      {{- if .Desc}}
      <p class="task-card-desc">{{.Desc}}</p>
      {{- end}}
      <div class="task-card-footer">
        {{- if .Assignee}}
        <span class="task-card-assignee">{{.Assignee}}</span>
        {{- else}}
        <span></span>
        {{- end}}
        {{- if .Priority}}
        <span class="task-card-priority {{.Priority}}">{{.Priority}}</span>
        {{- end}}
      </div>
    </div>
    {{- end}}
  </div>
</div>
{{- end}}
`))

type htmlData struct {
	Board
	Priorities []board.Priority
}

// HTML renders the board as the column/card markup of the web page. All task
// text is escaped.
func HTML(b Board) (string, error) {
	var buf bytes.Buffer
	data := htmlData{
		Board:      b,
		Priorities: []board.Priority{board.PriorityHigh, board.PriorityMedium, board.PriorityLow},
	}
	if err := boardTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
