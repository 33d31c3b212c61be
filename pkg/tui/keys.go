package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the single source of truth for both the dispatcher's
// key.Matches checks and the footer/help legends, so the two can never
// drift apart (§4.5 expansion).
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Logs     key.Binding
	Restart  key.Binding
	Stop     key.Binding
	Shell    key.Binding
	Quit     key.Binding
	Enter    key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "scroll up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "scroll down")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Logs:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
	Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Stop:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Shell:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shell")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "dismiss")),
}

// ShortHelp implements bubbles/help.KeyMap for the footer's single-line form.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Help, k.Quit}
}

// FullHelp implements bubbles/help.KeyMap for the help overlay's multi-line
// form, shown when the operator presses '?'.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Logs, k.Restart, k.Stop, k.Shell},
		{k.Help, k.Quit},
	}
}

// actionHelp returns the action bindings that only apply when a container
// is selected, for the footer to append conditionally (§4.5).
func actionHelp() []key.Binding {
	return []key.Binding{keys.Logs, keys.Restart, keys.Stop, keys.Shell}
}
