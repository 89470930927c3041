package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	MoveEarly  key.Binding
	MoveLate   key.Binding
	ToggleView key.Binding
	AspectMode key.Binding
	Reload     key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveEarly:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "move earlier")),
		MoveLate:   key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "move later")),
		ToggleView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "grid/queue")),
		AspectMode: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "aspect mode")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
