package tui

import (
	"strconv"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/taskboard/internal/core/dnd"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/core/view"
)

// cardUnit is the height given to every card in the synthetic layout the
// keyboard pointer moves through.
const cardUnit = 4

const minColumnWidth = 22

// cardBoxes lays out the column's cards, minus skipID, one unit apart.
func cardBoxes(col view.Column, skipID string) []dnd.CardBox {
	boxes := make([]dnd.CardBox, 0, len(col.Cards))
	for _, c := range col.Cards {
		if c.TaskID == skipID {
			continue
		}
		boxes = append(boxes, dnd.CardBox{
			TaskID: c.TaskID,
			Top:    float64(len(boxes) * cardUnit),
			Height: cardUnit,
		})
	}
	return boxes
}

// slotY is the pointer position that lands before the slot-th box, or after
// the last one when slot equals the box count.
func slotY(slot int) float64 {
	return float64(slot * cardUnit)
}

type boardLayout struct {
	width     int
	focusCol  int
	focusCard int
	showFocus bool
	form      *addForm
}

func (l boardLayout) columnWidth(n int) int {
	if n == 0 {
		return minColumnWidth
	}
	return max((l.width-n)/n, minColumnWidth)
}

// render draws the board columns side by side.
func (l boardLayout) render(b view.Board, v dnd.Visual) string {
	width := l.columnWidth(len(b.Columns))
	cols := make([]string, 0, len(b.Columns))
	for i, col := range b.Columns {
		cols = append(cols, l.renderColumn(i, col, v, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (l boardLayout) renderColumn(idx int, col view.Column, v dnd.Visual, width int) string {
	inner := max(width-4, 8)

	marker := lipgloss.NewStyle().Foreground(styles.MarkerColor(col.Marker)).Render(styles.IconDot)
	header := marker + " " + styles.ColumnHeaderStyle.Render(col.Label) + " " +
		styles.ColumnCountStyle.Render(strconv.Itoa(col.Count))

	lines := []string{header, ""}

	var ph *dnd.Placeholder
	if v.Placeholder != nil && v.Placeholder.Column == col.ID {
		ph = v.Placeholder
	}

	for i, card := range col.Cards {
		if ph != nil && ph.BeforeTaskID == card.TaskID {
			lines = append(lines, renderPlaceholder(inner))
		}
		focused := l.showFocus && idx == l.focusCol && i == l.focusCard
		lines = append(lines, renderCard(card, inner, focused, card.TaskID == v.DraggingID))
	}
	if ph != nil && ph.BeforeTaskID == "" {
		lines = append(lines, renderPlaceholder(inner))
	}

	if col.AddFormOpen && l.form != nil && l.form.column == col.ID {
		lines = append(lines, "", l.form.View())
	} else {
		lines = append(lines, "", styles.FormHelpStyle.Render("+ add task"))
	}

	style := styles.ColumnStyle
	if v.Highlight == col.ID || (v.Highlight == "" && l.showFocus && idx == l.focusCol) {
		style = styles.ColumnActiveStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func renderCard(c view.Card, width int, focused, dragging bool) string {
	style := styles.CardStyle
	switch {
	case dragging:
		style = styles.CardDraggingStyle
	case focused:
		style = styles.CardFocusedStyle
	}

	meta := styles.PriorityStyle(string(c.Priority)).Render(string(c.Priority))
	if c.Assignee != "" {
		meta = styles.CardAssigneeStyle.Render(styles.IconAssignee+c.Assignee) + " " + meta
	}

	body := []string{styles.CardTitleStyle.Render(ansi.Truncate(c.Title, width, "…"))}
	if c.Desc != "" {
		body = append(body, styles.CardDescStyle.Render(ansi.Truncate(c.Desc, width, "…")))
	}
	body = append(body, meta)

	return style.Render(strings.Join(body, "\n"))
}

func renderPlaceholder(width int) string {
	return styles.PlaceholderStyle.Render(ansi.Truncate(styles.IconPlaceholder, width, ""))
}
