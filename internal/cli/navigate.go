package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// statusMsg shows a one-line notice in the status bar until the next key.
type statusMsg struct {
	text string
}

// wizardCompleteMsg is sent when a form completes or is cancelled.
// The appModel pops the form, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// refreshViewMsg asks every view on the stack to redraw from board state.
type refreshViewMsg struct{}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func showStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
