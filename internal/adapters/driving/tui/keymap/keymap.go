// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back closes help or cancels input.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// SwitchView toggles between the notes panel and the study queue.
	SwitchView key.Binding

	// Hide toggles the hidden-from-notes flag of the selected idea.
	Hide key.Binding

	// MoveUp moves the selected idea one place up.
	MoveUp key.Binding

	// MoveDown moves the selected idea one place down.
	MoveDown key.Binding

	// ShowHidden toggles whether hidden ideas are listed.
	ShowHidden key.Binding

	// New starts writing a new idea.
	New key.Binding

	// Submit saves the idea being written.
	Submit key.Binding

	// Refresh reloads from the workspace.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "notes/queue"),
		),
		Hide: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hide"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		ShowHidden: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "show hidden"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new idea"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Help, k.Quit}
}

// IdeasHelp returns keybindings for the notes panel.
func (k *KeyMap) IdeasHelp() []key.Binding {
	return []key.Binding{k.New, k.Hide, k.MoveUp, k.MoveDown, k.SwitchView, k.Quit}
}

// InputHelp returns keybindings while writing an idea.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.New, k.Hide, k.ShowHidden},
		{k.MoveUp, k.MoveDown, k.Refresh},
		{k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
