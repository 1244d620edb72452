package timeline

import (
	"math"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// MinVisibleLength keeps zero-duration bars visible and clickable.
const MinVisibleLength = 20.0

// Bar is the geometry of one task bar in layout units. Callers scale units
// to pixels or terminal columns.
type Bar struct {
	Offset        float64
	Length        float64
	OverlayLength float64

	// Clipped is set when the task starts before the window and the offset
	// was clamped to zero. Length is not shortened to compensate, so a
	// clipped bar overstates the visible duration.
	Clipped bool
}

// Layout computes the bar of task within view.
func Layout(task domain.Task, view ViewState) Bar {
	g := view.Granularity
	unitDays := float64(g.StepDays())
	cell := g.CellWidth()

	daysFromWindowStart := domain.DaysBetween(view.Anchor, task.StartDate)
	durationDays := domain.DaysBetween(task.StartDate, task.EndDate)

	offset := math.Max(0, float64(daysFromWindowStart)/unitDays) * cell
	length := math.Max(float64(durationDays)/unitDays*cell, MinVisibleLength)

	return Bar{
		Offset:        offset,
		Length:        length,
		OverlayLength: length * float64(task.Progress) / 100,
		Clipped:       daysFromWindowStart < 0,
	}
}

// TaskBar pairs a task with its computed bar.
type TaskBar struct {
	Task domain.Task
	Bar  Bar
}

// LayoutAll lays out every task, preserving input order.
func LayoutAll(tasks []domain.Task, view ViewState) []TaskBar {
	out := make([]TaskBar, len(tasks))
	for i, t := range tasks {
		out[i] = TaskBar{Task: t, Bar: Layout(t, view)}
	}
	return out
}

// Width is the total width of the axis in layout units.
func Width(view ViewState) float64 {
	return float64(TickCount(view.Granularity)) * view.Granularity.CellWidth()
}
