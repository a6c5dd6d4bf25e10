package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the dataset browser.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	ToggleData  key.Binding
	ToggleModel key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		ToggleData: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle data"),
		),
		ToggleModel: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle model"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FooterBindings returns the bindings shown in the footer.
func FooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.ToggleData, km.ToggleModel, km.Quit}
}
