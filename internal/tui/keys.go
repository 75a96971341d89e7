package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the board key bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Complete  key.Binding
	Delete    key.Binding
	Highlight key.Binding
	Notify    key.Binding
	Completed key.Binding
	History   key.Binding
	Refresh   key.Binding
	Quit      key.Binding
	Yes       key.Binding
	No        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Complete:  key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "complete")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Highlight: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "highlight")),
		Notify:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "reminders")),
		Completed: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show done")),
		History:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Yes:       key.NewBinding(key.WithKeys("y", "Y")),
		No:        key.NewBinding(key.WithKeys("n", "N", "esc", "q")),
	}
}

// shortHelp returns the bindings shown in the status bar.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Delete, k.Highlight, k.Notify, k.MoveUp, k.MoveDown, k.Completed, k.History, k.Quit}
}
