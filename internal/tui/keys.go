package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Read     key.Binding
	Dismiss  key.Binding
	ReadAll  key.Binding
	ClearAll key.Binding
	Rescan   key.Binding
	Close    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Read:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark read")),
		Dismiss:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "dismiss")),
		ReadAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "mark all as read")),
		ClearAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Rescan:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "check stock")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide toasts")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Read, k.Dismiss, k.ReadAll, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Read},
		{k.Dismiss, k.ReadAll, k.ClearAll},
		{k.Rescan, k.Close, k.Help, k.Quit},
	}
}
