package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/host"
)

const (
	fieldTitle = iota
	fieldDesc
	fieldPriority
	fieldCount
)

// addForm is the inline add-task form of one column.
type addForm struct {
	column   board.Status
	title    textinput.Model
	desc     textinput.Model
	priority board.Priority
	focus    int
}

func newTextInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetWidth(width)

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)
	return ti
}

func newAddForm(column board.Status, width int) (*addForm, tea.Cmd) {
	f := &addForm{
		column:   column,
		title:    newTextInput("Task title", width),
		desc:     newTextInput("Description (optional)", width),
		priority: board.PriorityMedium,
	}
	return f, f.title.Focus()
}

// Submit builds the submit event from the current field values.
func (f *addForm) Submit() host.Submit {
	return host.Submit{
		Column:   f.column,
		Title:    f.title.Value(),
		Desc:     f.desc.Value(),
		Priority: f.priority,
	}
}

// Move shifts focus by delta fields, wrapping around.
func (f *addForm) Move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.title.Blur()
	f.desc.Blur()

	switch f.focus {
	case fieldTitle:
		return f.title.Focus()
	case fieldDesc:
		return f.desc.Focus()
	}
	return nil
}

// CyclePriority steps the priority selector forward or backward.
func (f *addForm) CyclePriority(forward bool) {
	all := board.Priorities()
	i := 0
	for j, p := range all {
		if p == f.priority {
			i = j
		}
	}
	if forward {
		i = (i + 1) % len(all)
	} else {
		i = (i - 1 + len(all)) % len(all)
	}
	f.priority = all[i]
}

// Update routes input to the focused text field.
func (f *addForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	}
	return cmd
}

func (f *addForm) View() string {
	field := func(i int, content string) string {
		if f.focus == i {
			return styles.FormFocusedStyle.Render(content)
		}
		return styles.FormFieldStyle.Render(content)
	}

	badges := make([]string, 0, len(board.Priorities()))
	for _, p := range board.Priorities() {
		label := string(p)
		if p == f.priority {
			badges = append(badges, styles.PriorityStyle(label).Render(label))
		} else {
			badges = append(badges, styles.FormHelpStyle.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		field(fieldTitle, f.title.View()),
		field(fieldDesc, f.desc.View()),
		field(fieldPriority, strings.Join(badges, " ")),
		styles.FormHelpStyle.Render("enter add · esc cancel"),
	)
}
