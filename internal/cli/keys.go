package cli

import "github.com/charmbracelet/bubbles/key"

// timelineKeyMap defines the keybindings of the timeline view.
type timelineKeyMap struct {
	Retreat key.Binding
	Advance key.Binding
	Today   key.Binding
	Day     key.Binding
	Week    key.Binding
	Month   key.Binding
	Up      key.Binding
	Down    key.Binding
	More    key.Binding
	Less    key.Binding
	Status  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Chat    key.Binding
	Quit    key.Binding
}

func defaultTimelineKeys() timelineKeyMap {
	return timelineKeyMap{
		Retreat: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		Advance: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Day: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d/w/m", "zoom"),
		),
		Week:  key.NewBinding(key.WithKeys("w")),
		Month: key.NewBinding(key.WithKeys("m")),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "progress"),
		),
		Less: key.NewBinding(key.WithKeys("-")),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Chat: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "chat"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k timelineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retreat, k.Advance, k.Today, k.Day, k.Down, k.Up, k.More, k.Status, k.Add, k.Delete, k.Chat, k.Quit}
}
