package timeline

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// Tick is one labelled boundary on the time axis.
type Tick struct {
	Date  time.Time
	Label string
}

// TickCount is the number of ticks rendered for a granularity: one per step
// that starts inside the horizon (month: days 0, 30, ..., 360 gives 13).
func TickCount(g domain.Granularity) int {
	step := g.StepDays()
	return (g.HorizonDays() + step - 1) / step
}

// Generate returns the tick dates for the view: anchor + i*step days for
// i in [0, TickCount). The sequence is strictly increasing.
func Generate(view ViewState) []time.Time {
	g := view.Granularity
	step := g.StepDays()
	n := TickCount(g)

	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, view.Anchor.AddDate(0, 0, i*step))
	}
	return dates
}

// TickLabel formats the axis label for a tick date.
//
// Week labels are W<ceil(dayOfMonth/7)>: a week-of-month index that resets
// every month, not an ISO week number.
func TickLabel(date time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityWeek:
		return fmt.Sprintf("W%d", (date.Day()+6)/7)
	case domain.GranularityMonth:
		return date.Format("Jan")
	default:
		return strconv.Itoa(date.Day())
	}
}

// Ticks pairs every generated date with its label.
func Ticks(view ViewState) []Tick {
	dates := Generate(view)
	ticks := make([]Tick, len(dates))
	for i, d := range dates {
		ticks[i] = Tick{Date: d, Label: TickLabel(d, view.Granularity)}
	}
	return ticks
}
