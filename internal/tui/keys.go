package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/taskboard/internal/tui/components"
)

// KeyMap holds the board's key bindings.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Grab      key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	Add       key.Binding
	Priority  key.Binding
	NextField key.Binding
	PrevField key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous card")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next card")),
		Grab:      key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "grab card")),
		Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop / submit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Priority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func entry(b key.Binding) components.HelpEntry {
	h := b.Help()
	return components.HelpEntry{Key: h.Key, Desc: h.Desc}
}

// HelpSections groups the bindings for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{Title: "Navigate", Entries: []components.HelpEntry{
			entry(k.Left), entry(k.Right), entry(k.Up), entry(k.Down),
		}},
		{Title: "Move cards", Entries: []components.HelpEntry{
			entry(k.Grab),
			{Key: "←→↑↓", Desc: "move placeholder"},
			entry(k.Drop),
			entry(k.Cancel),
		}},
		{Title: "Tasks", Entries: []components.HelpEntry{
			entry(k.Add), entry(k.Priority), entry(k.NextField), entry(k.PrevField),
		}},
		{Title: "General", Entries: []components.HelpEntry{
			entry(k.Help), entry(k.Quit),
		}},
	}
}
