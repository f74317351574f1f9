package ui

import "github.com/charmbracelet/bubbles/key"

// direction is the way the settings page walks its field list.
type direction int

const (
	up direction = iota
	down
)

type keymap struct {
	quit       key.Binding
	help       key.Binding
	config     key.Binding
	up         key.Binding
	down       key.Binding
	left       key.Binding
	right      key.Binding
	accept     key.Binding
	back       key.Binding
	refresh    key.Binding
	refreshAll key.Binding
	toggle     key.Binding
	faster     key.Binding
	slower     key.Binding
	addColumn  key.Binding
	dropColumn key.Binding
	goTo       key.Binding
}

// TODO make configurable.
var defaultKeyMap = keymap{
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "Quit"),
	),
	help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "Help"),
	),
	config: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "Settings"),
	),
	up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "Prev link"),
	),
	down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "Next link"),
	),
	left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "Prev column"),
	),
	right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "Next column"),
	),
	accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "Open link"),
	),
	back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "Back"),
	),
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "Refresh column"),
	),
	refreshAll: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "Refresh all"),
	),
	toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "Toggle auto refresh"),
	),
	faster: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "Shorten interval"),
	),
	slower: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "Lengthen interval"),
	),
	addColumn: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "Add column"),
	),
	dropColumn: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "Remove column"),
	),
	goTo: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "Go to URL"),
	),
}
