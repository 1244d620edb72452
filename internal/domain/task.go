package domain

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the wire and display format for whole-day dates.
const DateLayout = "2006-01-02"

type Task struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Progress  int
	Assignee  string
	Priority  Priority
	Status    TaskStatus

	Description string
	Project     string
}

// DueDate is the date the task is expected to finish.
func (t Task) DueDate() time.Time {
	return t.EndDate
}

// Validate checks the task invariants. It reports the first violation found.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if t.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Reason: "is required"}
	}
	if t.EndDate.IsZero() {
		return &ValidationError{Field: "endDate", Reason: "is required"}
	}
	if t.StartDate.After(t.EndDate) {
		return &ValidationError{
			Field:  "startDate",
			Reason: "must not be after endDate (" + t.StartDate.Format(DateLayout) + " > " + t.EndDate.Format(DateLayout) + ")",
		}
	}
	if t.Progress < 0 || t.Progress > 100 {
		return &ValidationError{Field: "progress", Reason: "must be within [0,100]"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "unknown value \"" + string(t.Priority) + "\""}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown value \"" + string(t.Status) + "\""}
	}
	return nil
}

// TaskPatch holds a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Name        *string
	StartDate   *time.Time
	EndDate     *time.Time
	Progress    *int
	Assignee    *string
	Priority    *Priority
	Status      *TaskStatus
	Description *string
	Project     *string
}

// Apply returns a copy of t with the patch merged in. The ID never changes.
func (p TaskPatch) Apply(t Task) Task {
	t.Name = CoalescePtr(p.Name, t.Name)
	if p.StartDate != nil {
		t.StartDate = Day(*p.StartDate)
	}
	if p.EndDate != nil {
		t.EndDate = Day(*p.EndDate)
	}
	t.Progress = CoalescePtr(p.Progress, t.Progress)
	t.Assignee = CoalescePtr(p.Assignee, t.Assignee)
	t.Priority = CoalescePtr(p.Priority, t.Priority)
	t.Status = CoalescePtr(p.Status, t.Status)
	t.Description = CoalescePtr(p.Description, t.Description)
	t.Project = CoalescePtr(p.Project, t.Project)
	return t
}

// Empty reports whether the patch would change nothing.
func (p TaskPatch) Empty() bool {
	return p == TaskPatch{}
}

// Day truncates t to 00:00 UTC of its calendar date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a whole-day UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// DaysBetween returns floor((to - from) / 1 day).
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
