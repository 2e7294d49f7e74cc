package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Increment key.Binding
	Decrement key.Binding
	Clear     key.Binding
	Reset     key.Binding
	Place     key.Binding
	Remove    key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Increment: key.NewBinding(key.WithKeys("+", "=", "right", "l"), key.WithHelp("+", "add step")),
		Decrement: key.NewBinding(key.WithKeys("-", "left", "h"), key.WithHelp("-", "remove step")),
		Clear:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset all")),
		Place:     key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "place")),
		Remove:    key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "unplace")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) voteHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Increment, k.Decrement, k.Clear, k.Reset, k.Quit}
}

func (k keyMap) matrixHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Place, k.Remove, k.Quit}
}
