package formatter

import (
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const (
	nameColumnWidth = 20
	clippedMarker   = "‹"
	overflowMarker  = "›"
	barFill         = "█"
	barTrack        = "▒"
)

// ColumnsPerCell is how many terminal columns one tick cell occupies.
func ColumnsPerCell(g domain.Granularity) int {
	switch g {
	case domain.GranularityWeek:
		return 6
	case domain.GranularityMonth:
		return 8
	default:
		return 3
	}
}

// columnsFor converts layout units to terminal columns for view.
func columnsFor(units float64, g domain.Granularity) int {
	return int(math.Round(units * float64(ColumnsPerCell(g)) / g.CellWidth()))
}

// TimelineOptions tweaks RenderTimeline.
type TimelineOptions struct {
	// Selected highlights the row with this task ID.
	Selected string
	// Today marks the matching tick when it is inside the window.
	Today time.Time
}

// RenderTimeline draws the Gantt chart: a tick header followed by one row
// per task with its bar and progress overlay scaled to terminal columns.
func RenderTimeline(view timeline.ViewState, ticks []timeline.Tick, bars []timeline.TaskBar, opts TimelineOptions) string {
	g := view.Granularity
	cellCols := ColumnsPerCell(g)
	width := len(ticks) * cellCols

	var b strings.Builder
	b.WriteString(StyleHeader.Render(view.Label()) + "  " + Dim(string(g)+" view") + "\n")

	b.WriteString(strings.Repeat(" ", nameColumnWidth+2))
	today := domain.Day(opts.Today)
	for i, tk := range ticks {
		label := Truncate(tk.Label, cellCols-1)
		cell := label + strings.Repeat(" ", cellCols-lipgloss.Width(label))
		if !today.IsZero() && tickContains(ticks, i, g, today) {
			cell = StyleRed.Render(cell)
		} else {
			cell = Dim(cell)
		}
		b.WriteString(cell)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", nameColumnWidth+2) + Dim(strings.Repeat("─", width)) + "\n")

	if len(bars) == 0 {
		b.WriteString(Dim("  No tasks in this project.") + "\n")
		return b.String()
	}
	for _, tb := range bars {
		b.WriteString(renderTimelineRow(tb, g, width, tb.Task.ID == opts.Selected && opts.Selected != ""))
		b.WriteString("\n")
	}
	return b.String()
}

func tickContains(ticks []timeline.Tick, i int, g domain.Granularity, day time.Time) bool {
	start := ticks[i].Date
	end := start.AddDate(0, 0, g.StepDays())
	return !day.Before(start) && day.Before(end)
}

func renderTimelineRow(tb timeline.TaskBar, g domain.Granularity, width int, selected bool) string {
	cursor := "  "
	name := Truncate(tb.Task.Name, nameColumnWidth)
	name += strings.Repeat(" ", nameColumnWidth-lipgloss.Width(name))
	if selected {
		cursor = StyleHeader.Render("› ")
		name = StyleBold.Render(name)
	}

	start := columnsFor(tb.Bar.Offset, g)
	length := max(columnsFor(tb.Bar.Length, g), 1)
	filled := min(columnsFor(tb.Bar.OverlayLength, g), length)

	if start >= width {
		return cursor + name + strings.Repeat(" ", width-1) + Dim(overflowMarker)
	}

	style := PriorityStyle(tb.Task.Priority)
	var row strings.Builder
	row.WriteString(strings.Repeat(" ", start))
	visible := min(length, width-start)
	for c := 0; c < visible; c++ {
		switch {
		case c == 0 && tb.Bar.Clipped:
			row.WriteString(style.Render(clippedMarker))
		case c < filled:
			row.WriteString(style.Render(barFill))
		default:
			row.WriteString(style.Render(barTrack))
		}
	}
	if visible < length {
		row.WriteString(Dim(overflowMarker))
	}
	return cursor + name + row.String()
}
