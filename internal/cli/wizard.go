package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// linimasaHuhTheme returns a huh theme using the Gruvbox palette.
func linimasaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskFormFields holds form-bound values for the add task wizard.
type taskFormFields struct {
	name     string
	start    string
	end      string
	assignee string
	priority domain.Priority
	status   domain.TaskStatus
}

// toTask converts validated form input into a task.
func (f taskFormFields) toTask() (domain.Task, error) {
	start, err := domain.ParseDate(f.start)
	if err != nil {
		return domain.Task{}, &domain.ValidationError{Field: "startDate", Reason: fmt.Sprintf("invalid date %q", f.start)}
	}
	end, err := domain.ParseDate(f.end)
	if err != nil {
		return domain.Task{}, &domain.ValidationError{Field: "endDate", Reason: fmt.Sprintf("invalid date %q", f.end)}
	}
	return domain.Task{
		Name:      strings.TrimSpace(f.name),
		StartDate: start,
		EndDate:   end,
		Assignee:  strings.TrimSpace(f.assignee),
		Priority:  f.priority,
		Status:    f.status,
	}, nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func priorityOptions() []huh.Option[domain.Priority] {
	opts := make([]huh.Option[domain.Priority], 0, len(domain.Priorities))
	for i := len(domain.Priorities) - 1; i >= 0; i-- {
		p := domain.Priorities[i]
		opts = append(opts, huh.NewOption(p.Label(), p))
	}
	return opts
}

func statusOptions() []huh.Option[domain.TaskStatus] {
	opts := make([]huh.Option[domain.TaskStatus], 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		opts = append(opts, huh.NewOption(s.Label(), s))
	}
	return opts
}

// newTaskForm builds the add task form bound to f.
func newTaskForm(f *taskFormFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(validateRequired),
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").Value(&f.start).Validate(validateDate),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").Value(&f.end).Validate(validateDate),
			huh.NewInput().Title("Assignee").Value(&f.assignee),
		),
		huh.NewGroup(
			huh.NewSelect[domain.Priority]().Title("Priority").Options(priorityOptions()...).Value(&f.priority),
			huh.NewSelect[domain.TaskStatus]().Title("Status").Options(statusOptions()...).Value(&f.status),
		),
	).WithTheme(linimasaHuhTheme()).WithShowHelp(false)
}

// newAddTaskView creates the wizard that adds a task to the board. Start and
// end default to the first day of the visible window.
func newAddTaskView(state *SharedState) View {
	board := state.Runtime.Board
	anchor := board.ViewState().Anchor.Format(domain.DateLayout)
	f := &taskFormFields{
		start:    anchor,
		end:      anchor,
		priority: domain.PriorityMedium,
		status:   domain.StatusNotStarted,
	}
	return newWizardView(state, "Add Task", newTaskForm(f), addTaskDone(board, f))
}

// addTaskDone adds the submitted task and reports the outcome as a notice.
func addTaskDone(board *dashboard.Board, f *taskFormFields) func() tea.Cmd {
	return func() tea.Cmd {
		task, err := f.toTask()
		if err == nil {
			task, err = board.AddTask(task)
		}
		if err != nil {
			return showStatus(formatter.StyleRed.Render("✖ " + err.Error()))
		}
		return showStatus(fmt.Sprintf("%s Added %s", formatter.StyleGreen.Render("✔"), formatter.Bold(task.Name)))
	}
}
