package stats

import (
	"testing"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var today = testutil.Date(2024, 1, 15)

func dueOn(name string, due time.Time, opts ...testutil.TaskOption) domain.Task {
	opts = append([]testutil.TaskOption{testutil.WithDates(due, due)}, opts...)
	return testutil.NewTestTask(name, opts...)
}

func TestDaysUntilDue(t *testing.T) {
	assert.Equal(t, 3, DaysUntilDue(testutil.Date(2024, 1, 18), today))
	assert.Equal(t, 0, DaysUntilDue(today, today))
	assert.Equal(t, -1, DaysUntilDue(testutil.Date(2024, 1, 14), today))
}

func TestDaysUntilDue_RoundsPartialDaysUp(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntilDue(testutil.Date(2024, 1, 16), now))
	assert.Equal(t, 0, DaysUntilDue(testutil.Date(2024, 1, 15), now), "ceil(-10h) is 0, so today is not overdue")
	assert.Equal(t, -1, DaysUntilDue(testutil.Date(2024, 1, 14), now))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, UrgencyDueSoon, Classify(testutil.Date(2024, 1, 18), today))
	assert.Equal(t, UrgencyDueSoon, Classify(today, today))
	assert.Equal(t, UrgencyUpcoming, Classify(testutil.Date(2024, 1, 19), today))
	assert.Equal(t, UrgencyOverdue, Classify(testutil.Date(2024, 1, 10), today))
}

func TestDueLabel(t *testing.T) {
	assert.Equal(t, "5 days overdue", DueLabel(testutil.Date(2024, 1, 10), today))
	assert.Equal(t, "Due today", DueLabel(today, today))
	assert.Equal(t, "3 days left", DueLabel(testutil.Date(2024, 1, 18), today))
}

func TestCompute_DueWindows(t *testing.T) {
	tasks := []domain.Task{
		dueOn("API Documentation", testutil.Date(2024, 1, 18), testutil.WithStatus(domain.StatusPending)),
		dueOn("Redesign", testutil.Date(2024, 1, 15), testutil.WithStatus(domain.StatusInProgress)),
		dueOn("Old report", testutil.Date(2024, 1, 2), testutil.WithStatus(domain.StatusCompleted)),
		dueOn("Security Audit", testutil.Date(2024, 2, 1)),
	}

	s := Compute(tasks, today)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 2, s.DueSoon)
	assert.Equal(t, 1, s.ByStatus[domain.StatusPending])
	assert.Equal(t, 1, s.ByStatus[domain.StatusInProgress])
	assert.Equal(t, 1, s.ByStatus[domain.StatusCompleted])
	assert.Equal(t, 1, s.ByStatus[domain.StatusNotStarted])
}

func TestCompute_GanttSample(t *testing.T) {
	s := Compute(testutil.GanttTasks(), testutil.Date(2024, 1, 1))

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.ByStatus[domain.StatusCompleted])
	assert.Equal(t, 2, s.ByStatus[domain.StatusInProgress])
	assert.Equal(t, 2, s.ByStatus[domain.StatusNotStarted])
	assert.Equal(t, 3, s.ByPriority[domain.PriorityHigh])
	assert.Equal(t, 2, s.ByPriority[domain.PriorityMedium])
	assert.InDelta(t, 41.0, s.AverageProgress, 1e-9)
}

func TestCompute_EmptyHasEveryBucket(t *testing.T) {
	s := Compute(nil, today)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AverageProgress)
	assert.Len(t, s.ByStatus, len(domain.Statuses))
	assert.Len(t, s.ByPriority, len(domain.Priorities))
	for _, st := range domain.Statuses {
		v, ok := s.ByStatus[st]
		assert.True(t, ok, st)
		assert.Zero(t, v)
	}
}

func TestCompute_IsPure(t *testing.T) {
	tasks := testutil.GanttTasks()
	assert.Equal(t, Compute(tasks, today), Compute(tasks, today))
}
