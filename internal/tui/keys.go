package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding
	Tab        key.Binding
	Enter      key.Binding
	New        key.Binding
	AddTask    key.Binding
	AddSection key.Binding
	Edit       key.Binding
	Bookmark   key.Binding
	Delete     key.Binding
	Help       key.Binding
	Quit       key.Binding
	Escape     key.Binding
	Refresh    key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	MoveUp:     key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	MoveDown:   key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	MoveLeft:   key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move to left section")),
	MoveRight:  key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move to right section")),
	Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/save")),
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new board")),
	AddTask:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	AddSection: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add section")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
	Bookmark:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle bookmark")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:    key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "refresh")),
}
