package cli

import (
	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// wizardView hosts a huh form on the view stack. When the form completes,
// onSubmit runs and the command it returns is handed to the appModel along
// with the pop.
type wizardView struct {
	state    *SharedState
	form     *huh.Form
	title    string
	onSubmit func() tea.Cmd
}

func newWizardView(state *SharedState, title string, form *huh.Form, onSubmit func() tea.Cmd) *wizardView {
	if state.Width > 0 {
		form = form.WithWidth(min(state.Width, 80))
	}
	return &wizardView{state: state, form: form, title: title, onSubmit: onSubmit}
}

func finishWizard(next tea.Cmd) tea.Cmd {
	return func() tea.Msg { return wizardCompleteMsg{nextCmd: next} }
}

func (v *wizardView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.form = v.form.WithWidth(min(msg.Width, 80))
		return v, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, finishWizard(showStatus(formatter.Dim("Cancelled.")))
		}
	}

	model, cmd := v.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		var next tea.Cmd
		if v.onSubmit != nil {
			next = v.onSubmit()
		}
		return v, finishWizard(next)
	case huh.StateAborted:
		return v, finishWizard(showStatus(formatter.Dim("Cancelled.")))
	}
	return v, cmd
}

func (v *wizardView) View() string {
	return v.form.View()
}

func (v *wizardView) ID() ViewID    { return ViewForm }
func (v *wizardView) Title() string { return v.title }
func (v *wizardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab", "enter"), key.WithHelp("enter", "next field")),
		key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
