package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies a kind of view on the navigation stack.
type ViewID int

const (
	ViewTimeline ViewID = iota
	ViewForm
	ViewChat
)

func (id ViewID) String() string {
	switch id {
	case ViewTimeline:
		return "timeline"
	case ViewForm:
		return "form"
	case ViewChat:
		return "chat"
	}
	return "unknown"
}

// View is a screen the appModel can stack. Title feeds the breadcrumb and
// ShortHelp the bottom bar.
type View interface {
	tea.Model
	ID() ViewID
	Title() string
	ShortHelp() []key.Binding
}
