package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// FormatTaskTable renders the task list as an aligned table.
func FormatTaskTable(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			Truncate(t.Name, 32),
			DateRange(t.StartDate, t.EndDate),
			RenderCompactBar(float64(t.Progress)/100, 10) + fmt.Sprintf(" %3d%%", t.Progress),
			PriorityDot(t.Priority),
			StatusPill(t.Status),
			t.Assignee,
		})
	}
	return RenderTable([]string{"ID", "NAME", "DATES", "PROGRESS", "PRIORITY", "STATUS", "ASSIGNEE"}, rows)
}

// FormatTaskDetail renders one task as a labelled block inside a box. The due
// line is relative to now.
func FormatTaskDetail(t domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(t.Name) + "  " + TruncID(t.ID) + "\n")
	line := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("%-9s", label)), value))
	}
	line("Dates", DateRange(t.StartDate, t.EndDate))
	line("Due", ShortDate(t.DueDate())+Dim(" · ")+RelativeDateFrom(t.DueDate(), now))
	line("Progress", RenderProgress(float64(t.Progress)/100, 20))
	line("Priority", PriorityDot(t.Priority))
	line("Status", StatusPill(t.Status))
	line("Assignee", t.Assignee)
	line("Project", t.Project)
	line("Notes", t.Description)
	return RenderBox("", strings.TrimSuffix(b.String(), "\n"))
}
