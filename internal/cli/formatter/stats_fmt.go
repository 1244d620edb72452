package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

// FormatSummaryCards renders the four headline counters side by side.
func FormatSummaryCards(s stats.Summary) string {
	card := func(label, value string, style lipgloss.Style) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 2).
			Width(18).
			Render(Dim(label) + "\n" + style.Bold(true).Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total tasks", fmt.Sprint(s.Total), StyleFg),
		card("Overdue", fmt.Sprint(s.Overdue), StyleRed),
		card("Due soon", fmt.Sprint(s.DueSoon), StyleYellow),
		card("Avg progress", fmt.Sprintf("%.0f%%", s.AverageProgress), StyleGreen),
	)
}

// FormatBreakdown lists the per-status and per-priority counters.
func FormatBreakdown(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(Header("By status") + "\n")
	for _, st := range domain.Statuses {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", StatusPill(st), Bold(fmt.Sprint(s.ByStatus[st]))))
	}
	b.WriteString("\n" + Header("By priority") + "\n")
	for i := len(domain.Priorities) - 1; i >= 0; i-- {
		p := domain.Priorities[i]
		b.WriteString(fmt.Sprintf("  %-18s %s\n", PriorityDot(p), Bold(fmt.Sprint(s.ByPriority[p]))))
	}
	return b.String()
}

// FormatDeadlines renders the nearest-first deadline list. limit <= 0 shows all.
func FormatDeadlines(ds []dashboard.Deadline, limit int) string {
	if len(ds) == 0 {
		return Dim("No upcoming deadlines.") + "\n"
	}
	if limit > 0 && len(ds) > limit {
		ds = ds[:limit]
	}
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(fmt.Sprintf("  %s %s  %s  %s\n",
			PriorityStyle(d.Task.Priority).Render("●"),
			Truncate(d.Task.Name, 32),
			Dim(d.Task.DueDate().Format("Jan 2")),
			UrgencyStyle(d.Urgency).Render(d.Label),
		))
	}
	return b.String()
}

// FormatStats renders the full stats report: cards, breakdown and deadlines.
func FormatStats(snap dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(FormatSummaryCards(snap.Stats) + "\n\n")
	b.WriteString(FormatBreakdown(snap.Stats) + "\n")
	b.WriteString(Header("Deadlines") + "\n")
	b.WriteString(FormatDeadlines(snap.Deadlines, 0))
	return b.String()
}
