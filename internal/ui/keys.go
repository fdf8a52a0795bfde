package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/ngmaloney/weather-terminal/internal/search"
)

// KeyMap defines the application-level bindings
type KeyMap struct {
	Quit        key.Binding
	SwitchFocus key.Binding

	// Active while the weather card has focus
	CardQuit key.Binding
	Search   key.Binding
	Locate   key.Binding
	Refresh  key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		CardQuit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("s", "/"),
			key.WithHelp("s", "search"),
		),
		Locate: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "my location"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// bindings adapts a flat list of bindings to help.KeyMap
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{b}
}

// helpKeys returns the bindings that apply to the focused area
func (m Model) helpKeys() bindings {
	if m.search.Focused() {
		return append(bindings(search.DefaultKeyMap().ShortHelp()), m.keys.SwitchFocus, m.keys.Quit)
	}

	b := bindings{m.keys.Search}
	if m.locator != nil {
		b = append(b, m.keys.Locate)
	}
	if m.last != nil {
		b = append(b, m.keys.Refresh)
	}
	return append(b, m.keys.SwitchFocus, m.keys.CardQuit)
}
