package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the key bindings of the flame view.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Zoom    key.Binding
	Reset   key.Binding
	Combine key.Binding
	Members key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous sibling"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next sibling"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "parent"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "heaviest child"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("enter", "z"),
			key.WithHelp("enter/z", "zoom"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset zoom"),
		),
		Combine: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "combine frames"),
		),
		Members: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "pick combined member"),
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
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Zoom, k.Reset, k.Combine, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Zoom, k.Reset, k.Combine, k.Members},
		{k.Help, k.Quit},
	}
}

// Action maps a key press to a browser action.
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Left):
		return ActionLeft
	case key.Matches(msg, k.Right):
		return ActionRight
	case key.Matches(msg, k.Up):
		return ActionUp
	case key.Matches(msg, k.Down):
		return ActionDown
	case key.Matches(msg, k.Zoom):
		return ActionZoom
	case key.Matches(msg, k.Reset):
		return ActionReset
	case key.Matches(msg, k.Combine):
		return ActionToggleCombine
	case key.Matches(msg, k.Quit):
		return ActionQuit
	}
	return ActionNone
}
