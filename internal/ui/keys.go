package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the host's bindings. Keys it does not bind go to the sheet
// content while the sheet is presented.
type KeyMap struct {
	Toggle    key.Binding
	Open      key.Binding
	Close     key.Binding
	Direction key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var Keys = KeyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle sheet"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Close: key.NewBinding(
		key.WithKeys("c", "esc"),
		key.WithHelp("c/esc", "close"),
	),
	Direction: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "flip direction"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Direction, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Open, k.Close},
		{k.Direction, k.Help, k.Quit},
	}
}
