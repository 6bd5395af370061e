// Package components provides reusable TUI pieces.
package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/styles"
)

// HelpFallback is shown when the guide cannot be rendered.
const HelpFallback = "Help content could not be loaded."

// HelpEntry is one key binding line.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups entries under a title.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpDialog shows the user guide followed by the key bindings.
type HelpDialog struct {
	title    string
	guide    string
	sections []HelpDialogSection
}

// NewHelpDialog renders guide as markdown wrapped to width.
func NewHelpDialog(title, guide string, sections []HelpDialogSection, width int) *HelpDialog {
	return &HelpDialog{
		title:    title,
		guide:    RenderMarkdown(guide, width),
		sections: sections,
	}
}

// RenderMarkdown renders md with the active theme. Rendering failures yield
// HelpFallback.
func RenderMarkdown(md string, width int) string {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer")
		return HelpFallback
	}

	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render help markdown")
		return HelpFallback
	}
	return strings.TrimSpace(out)
}

// View renders the dialog.
func (h *HelpDialog) View() string {
	var lines []string
	separator := styles.DividerStyle.Render(strings.Repeat("─", 25))

	for _, section := range h.sections {
		lines = append(lines, "", styles.HelpSectionStyle.Render(section.Title), separator)
		for _, entry := range section.Entries {
			lines = append(lines, formatKeyDesc(entry.Key, entry.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		"",
		h.guide,
		strings.Join(lines, "\n"),
		"",
		styles.FormHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay centers the dialog over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	modal := h.View()

	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)

	return lipgloss.NewCompositor(
		lipgloss.NewLayer(background),
		lipgloss.NewLayer(modal).X(x).Y(y).Z(1),
	).Render()
}

func formatKeyDesc(key, desc string) string {
	const keyWidth = 12
	return styles.HelpKeyStyle.Width(keyWidth).Render(key) + styles.HelpDescStyle.Render(desc)
}
