package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	all    key.Binding
	search key.Binding
	enter  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle: key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "toggle")),
		all:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		search: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.all, k.search},
		{k.enter, k.quit},
	}
}
