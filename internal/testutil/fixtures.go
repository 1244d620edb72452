package testutil

import (
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// Date returns 00:00 UTC on the given calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FixedClock returns a clock func that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Task options
type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = start
		t.EndDate = end
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithAssignee(a string) TaskOption {
	return func(t *domain.Task) {
		t.Assignee = a
	}
}

// NewTestTask builds a valid one-week task starting 2024-01-01. It has no
// ID so the registry assigns one.
func NewTestTask(name string, opts ...TaskOption) domain.Task {
	t := domain.Task{
		Name:      name,
		StartDate: Date(2024, 1, 1),
		EndDate:   Date(2024, 1, 7),
		Progress:  0,
		Assignee:  "Test Team",
		Priority:  domain.PriorityMedium,
		Status:    domain.StatusNotStarted,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// GanttTasks returns the five-task sample project used across timeline tests.
func GanttTasks() []domain.Task {
	return []domain.Task{
		NewTestTask("Project Planning", WithID("1"),
			WithDates(Date(2024, 1, 1), Date(2024, 1, 7)), WithProgress(100),
			WithAssignee("John Doe"), WithPriority(domain.PriorityHigh), WithStatus(domain.StatusCompleted)),
		NewTestTask("Design Phase", WithID("2"),
			WithDates(Date(2024, 1, 8), Date(2024, 1, 21)), WithProgress(75),
			WithAssignee("Jane Smith"), WithPriority(domain.PriorityHigh), WithStatus(domain.StatusInProgress)),
		NewTestTask("Development", WithID("3"),
			WithDates(Date(2024, 1, 15), Date(2024, 2, 15)), WithProgress(30),
			WithAssignee("Mike Johnson"), WithPriority(domain.PriorityMedium), WithStatus(domain.StatusInProgress)),
		NewTestTask("Testing", WithID("4"),
			WithDates(Date(2024, 2, 10), Date(2024, 2, 25)),
			WithAssignee("Sarah Wilson"), WithPriority(domain.PriorityMedium)),
		NewTestTask("Deployment", WithID("5"),
			WithDates(Date(2024, 2, 20), Date(2024, 2, 28)),
			WithAssignee("Tom Brown"), WithPriority(domain.PriorityHigh)),
	}
}
