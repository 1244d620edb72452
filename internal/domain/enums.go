package domain

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank returns the position of p in the total order low < medium < high < critical.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Label returns the capitalized display form ("High").
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// ParsePriority maps both the timeline ("Low", "Medium", "High") and the
// dashboard ("medium", "high", "critical") vocabularies onto Priority.
func ParsePriority(s string) (Priority, error) {
	switch normalizeVocab(s) {
	case "low":
		return PriorityLow, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	}
	return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", s)}
}

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusPlanning   TaskStatus = "planning"
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []TaskStatus{StatusNotStarted, StatusPlanning, StatusPending, StatusInProgress, StatusCompleted}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusPlanning, StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the display form ("In Progress").
func (s TaskStatus) Label() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Next returns the following status in lifecycle order, wrapping after completed.
func (s TaskStatus) Next() TaskStatus {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusNotStarted
}

// ParseStatus accepts "Not Started", "not-started", "in_progress", "Completed", etc.
func ParseStatus(s string) (TaskStatus, error) {
	switch normalizeVocab(s) {
	case "not_started", "notstarted", "todo":
		return StatusNotStarted, nil
	case "planning":
		return StatusPlanning, nil
	case "pending":
		return StatusPending, nil
	case "in_progress", "inprogress":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown value %q", s)}
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Granularities lists the zoom levels from finest to coarsest.
var Granularities = []Granularity{GranularityDay, GranularityWeek, GranularityMonth}

// StepDays is the number of days one tick (and one layout cell) covers.
func (g Granularity) StepDays() int {
	switch g {
	case GranularityWeek:
		return 7
	case GranularityMonth:
		return 30
	default:
		return 1
	}
}

// HorizonDays is the span of the visible window in days.
func (g Granularity) HorizonDays() int {
	switch g {
	case GranularityWeek:
		return 84
	case GranularityMonth:
		return 365
	default:
		return 30
	}
}

// CellWidth is the width of one tick in layout units.
func (g Granularity) CellWidth() float64 {
	switch g {
	case GranularityWeek:
		return 80
	case GranularityMonth:
		return 128
	default:
		return 40
	}
}

func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// ParseGranularity accepts singular and plural forms ("days", "week").
func ParseGranularity(s string) (Granularity, error) {
	switch normalizeVocab(s) {
	case "day", "days", "d":
		return GranularityDay, nil
	case "week", "weeks", "w":
		return GranularityWeek, nil
	case "month", "months", "m":
		return GranularityMonth, nil
	}
	return "", &ValidationError{Field: "granularity", Reason: fmt.Sprintf("unknown value %q", s)}
}

// normalizeVocab lowercases s and folds spaces and dashes into underscores.
func normalizeVocab(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
