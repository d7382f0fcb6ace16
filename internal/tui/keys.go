package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevCategory key.Binding
	NextCategory key.Binding
	Activate     key.Binding
	ResetFilter  key.Binding
	Quit         key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevCategory: key.NewBinding(
		key.WithKeys("left", "shift+tab"),
		key.WithHelp("←", "prev category"),
	),
	NextCategory: key.NewBinding(
		key.WithKeys("right", "tab"),
		key.WithHelp("→/tab", "next category"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "copy & open"),
	),
	ResetFilter: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "all categories"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) helpLine() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextCategory, k.Activate, k.ResetFilter, k.Quit}
}
