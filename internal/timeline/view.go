// Package timeline computes the time axis and bar geometry of the Gantt view.
//
// Everything here is a pure function over explicit state: a ViewState and
// the tasks to lay out. Nothing reads the system clock.
package timeline

import (
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// ViewState is the navigation cursor of the timeline: the first visible day
// and the zoom level.
type ViewState struct {
	Anchor      time.Time
	Granularity domain.Granularity
}

// NewViewState returns a view anchored on the day of anchor. An invalid
// granularity falls back to day.
func NewViewState(anchor time.Time, g domain.Granularity) *ViewState {
	if !g.Valid() {
		g = domain.GranularityDay
	}
	return &ViewState{Anchor: domain.Day(anchor), Granularity: g}
}

// Advance moves the anchor forward one calendar month. The step is a month
// at every granularity; zoom changes tick density, not navigation distance.
func (v *ViewState) Advance() {
	v.Anchor = v.Anchor.AddDate(0, 1, 0)
}

// Retreat moves the anchor back one calendar month.
func (v *ViewState) Retreat() {
	v.Anchor = v.Anchor.AddDate(0, -1, 0)
}

// JumpToToday sets the anchor to the calendar day of now.
func (v *ViewState) JumpToToday(now time.Time) {
	v.Anchor = domain.Day(now)
}

// SetGranularity changes the zoom level. The anchor is left untouched.
func (v *ViewState) SetGranularity(g domain.Granularity) {
	v.Granularity = g
}

// Label renders the window heading, e.g. "January 2024".
func (v ViewState) Label() string {
	return v.Anchor.Format("January 2006")
}

// End returns the first day after the visible horizon.
func (v ViewState) End() time.Time {
	return v.Anchor.AddDate(0, 0, v.Granularity.HorizonDays())
}
