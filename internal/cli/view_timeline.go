package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// progressStep is how much +/- moves the selected task.
const progressStep = 10

// deadlinePanelSize caps the deadline list under the chart.
const deadlinePanelSize = 5

// timelineView is the home view: summary cards, the Gantt chart and the
// nearest deadlines. Every mutation recomputes the snapshot.
type timelineView struct {
	state    *SharedState
	keys     timelineKeyMap
	snap     dashboard.Snapshot
	selected int
}

func newTimelineView(state *SharedState) *timelineView {
	v := &timelineView{state: state, keys: defaultTimelineKeys()}
	v.recompute()
	return v
}

func (v *timelineView) board() *dashboard.Board {
	return v.state.Runtime.Board
}

func (v *timelineView) recompute() {
	v.snap = v.board().Snapshot()
	v.selected = min(v.selected, len(v.snap.Bars)-1)
	v.selected = max(v.selected, 0)
}

// selectedTask returns the highlighted task, if any.
func (v *timelineView) selectedTask() (domain.Task, bool) {
	if len(v.snap.Bars) == 0 {
		return domain.Task{}, false
	}
	return v.snap.Bars[v.selected].Task, true
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *timelineView) Init() tea.Cmd {
	return nil
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.recompute()
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *timelineView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	board := v.board()
	switch {
	case key.Matches(msg, v.keys.Retreat):
		board.Navigate((*timeline.ViewState).Retreat)
	case key.Matches(msg, v.keys.Advance):
		board.Navigate((*timeline.ViewState).Advance)
	case key.Matches(msg, v.keys.Today):
		now := board.Now()
		board.Navigate(func(view *timeline.ViewState) { view.JumpToToday(now) })
	case key.Matches(msg, v.keys.Day):
		board.Navigate(zoomTo(domain.GranularityDay))
	case key.Matches(msg, v.keys.Week):
		board.Navigate(zoomTo(domain.GranularityWeek))
	case key.Matches(msg, v.keys.Month):
		board.Navigate(zoomTo(domain.GranularityMonth))
	case key.Matches(msg, v.keys.Down):
		if v.selected < len(v.snap.Bars)-1 {
			v.selected++
		}
		return v, nil
	case key.Matches(msg, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
		return v, nil
	case key.Matches(msg, v.keys.More):
		return v, v.adjustProgress(progressStep)
	case key.Matches(msg, v.keys.Less):
		return v, v.adjustProgress(-progressStep)
	case key.Matches(msg, v.keys.Status):
		return v, v.cycleStatus()
	case key.Matches(msg, v.keys.Delete):
		return v, v.deleteSelected()
	case key.Matches(msg, v.keys.Add):
		return v, pushView(newAddTaskView(v.state))
	case key.Matches(msg, v.keys.Chat):
		return v, pushView(newChatView(v.state))
	default:
		return v, nil
	}
	v.recompute()
	return v, nil
}

func zoomTo(g domain.Granularity) func(*timeline.ViewState) {
	return func(view *timeline.ViewState) { view.SetGranularity(g) }
}

func (v *timelineView) adjustProgress(delta int) tea.Cmd {
	t, ok := v.selectedTask()
	if !ok {
		return nil
	}
	p := min(max(t.Progress+delta, 0), 100)
	if p == t.Progress {
		return nil
	}
	return v.update(t, domain.TaskPatch{Progress: &p})
}

func (v *timelineView) cycleStatus() tea.Cmd {
	t, ok := v.selectedTask()
	if !ok {
		return nil
	}
	next := t.Status.Next()
	return v.update(t, domain.TaskPatch{Status: &next})
}

func (v *timelineView) update(t domain.Task, patch domain.TaskPatch) tea.Cmd {
	if _, err := v.board().UpdateTask(t.ID, patch); err != nil {
		return showStatus(formatter.StyleRed.Render("✖ " + err.Error()))
	}
	v.recompute()
	return nil
}

func (v *timelineView) deleteSelected() tea.Cmd {
	t, ok := v.selectedTask()
	if !ok {
		return nil
	}
	if err := v.board().RemoveTask(t.ID); err != nil {
		return showStatus(formatter.StyleRed.Render("✖ " + err.Error()))
	}
	v.recompute()
	return showStatus(fmt.Sprintf("%s Deleted %s", formatter.StyleGreen.Render("✔"), formatter.Bold(t.Name)))
}

func (v *timelineView) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatSummaryCards(v.snap.Stats))
	b.WriteString("\n\n")

	opts := formatter.TimelineOptions{Today: v.snap.Now}
	if t, ok := v.selectedTask(); ok {
		opts.Selected = t.ID
	}
	b.WriteString(formatter.RenderTimeline(v.snap.View, v.snap.Ticks, v.snap.Bars, opts))

	if t, ok := v.selectedTask(); ok {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s  %s\n",
			formatter.Bold(t.Name),
			formatter.Dim(formatter.DateRange(t.StartDate, t.EndDate)),
			formatter.RenderProgress(float64(t.Progress)/100, 10),
			formatter.PriorityDot(t.Priority),
			formatter.StatusPill(t.Status),
		))
	}

	b.WriteString("\n" + formatter.Header("Deadlines") + "\n")
	b.WriteString(formatter.FormatDeadlines(v.snap.Deadlines, deadlinePanelSize))
	return b.String()
}

// ── View interface ───────────────────────────────────────────────────────────

func (v *timelineView) ID() ViewID    { return ViewTimeline }
func (v *timelineView) Title() string { return "Timeline" }
func (v *timelineView) ShortHelp() []key.Binding {
	return v.keys.ShortHelp()
}
