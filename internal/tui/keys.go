package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	NextPane  key.Binding
	PrevPane  key.Binding
	Refresh   key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Flip      key.Binding
	Select    key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Related   key.Binding
	Submit    key.Binding
	FieldUp   key.Binding
	FieldDown key.Binding
	Create    key.Binding
	Back      key.Binding
	Yes       key.Binding
	No        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Next:      key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n/→", "next")),
		Prev:      key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p/←", "prev")),
		Flip:      key.NewBinding(key.WithKeys("f", " "), key.WithHelp("f/space", "flip")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "filter")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle tag")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Related:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "related")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add tag")),
		FieldUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev field")),
		FieldDown: key.NewBinding(key.WithKeys("down", "enter"), key.WithHelp("↓/enter", "next field")),
		Create:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create card")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to review")),
		Yes:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		No:        key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}
