package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := ansi.Strip(RenderMarkdown("# Task Board\n\nDrag cards between **columns**.", 60))
	assert.Contains(t, out, "Task Board")
	assert.Contains(t, out, "columns")
	assert.NotContains(t, out, "**")
}

func TestHelpDialog_View(t *testing.T) {
	d := NewHelpDialog("Help / User Guide", "Move tasks across the board.", []HelpDialogSection{
		{Title: "Drag", Entries: []HelpEntry{{Key: "space", Desc: "grab card"}}},
	}, 60)

	out := ansi.Strip(d.View())
	assert.Contains(t, out, "Help / User Guide")
	assert.Contains(t, out, "Move tasks across the board.")
	assert.Contains(t, out, "space")
	assert.Contains(t, out, "grab card")
	assert.Contains(t, out, "esc/? close")
}

func TestFormatKeyDesc_AlignsDescriptions(t *testing.T) {
	short := ansi.Strip(formatKeyDesc("a", "add"))
	long := ansi.Strip(formatKeyDesc("shift+tab", "previous field"))
	assert.Equal(t, strings.Index(short, "add"), strings.Index(long, "previous field"))
}
