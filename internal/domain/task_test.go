package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validTask() Task {
	return Task{
		ID:        "t1",
		Name:      "Design Phase",
		StartDate: date(2024, 1, 8),
		EndDate:   date(2024, 1, 21),
		Progress:  75,
		Assignee:  "Jane Smith",
		Priority:  PriorityHigh,
		Status:    StatusInProgress,
	}
}

func TestValidate_AcceptsValidTask(t *testing.T) {
	assert.NoError(t, validTask().Validate())
}

func TestValidate_SameDayTaskIsValid(t *testing.T) {
	task := validTask()
	task.EndDate = task.StartDate
	assert.NoError(t, task.Validate())
}

func TestValidate_Violations(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Task)
		field string
	}{
		{"start after end", func(t *Task) { t.StartDate = date(2024, 1, 10); t.EndDate = date(2024, 1, 5) }, "startDate"},
		{"negative progress", func(t *Task) { t.Progress = -1 }, "progress"},
		{"progress over 100", func(t *Task) { t.Progress = 101 }, "progress"},
		{"blank name", func(t *Task) { t.Name = "   " }, "name"},
		{"missing start", func(t *Task) { t.StartDate = time.Time{} }, "startDate"},
		{"missing end", func(t *Task) { t.EndDate = time.Time{} }, "endDate"},
		{"unknown priority", func(t *Task) { t.Priority = "urgent" }, "priority"},
		{"unknown status", func(t *Task) { t.Status = "blocked" }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mut(&task)
			err := task.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestPatchApply_MergesOnlySetFields(t *testing.T) {
	task := validTask()
	patched := TaskPatch{
		Progress: Ptr(90),
		Status:   Ptr(StatusCompleted),
		EndDate:  Ptr(time.Date(2024, 1, 25, 15, 30, 0, 0, time.UTC)),
	}.Apply(task)

	assert.Equal(t, "t1", patched.ID)
	assert.Equal(t, "Design Phase", patched.Name)
	assert.Equal(t, 90, patched.Progress)
	assert.Equal(t, StatusCompleted, patched.Status)
	assert.Equal(t, date(2024, 1, 25), patched.EndDate, "patched dates are truncated to whole days")
	assert.Equal(t, 75, task.Progress, "original must not change")
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Name: Ptr("x")}.Empty())
}

func TestDay_TruncatesToUTCMidnight(t *testing.T) {
	in := time.Date(2024, 3, 5, 23, 59, 0, 0, time.FixedZone("WIB", 7*3600))
	assert.Equal(t, date(2024, 3, 5), Day(in))
	assert.True(t, Day(time.Time{}).IsZero())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 7, DaysBetween(date(2024, 1, 1), date(2024, 1, 8)))
	assert.Equal(t, -7, DaysBetween(date(2024, 1, 1), date(2023, 12, 25)))
	assert.Equal(t, 0, DaysBetween(date(2024, 1, 1), date(2024, 1, 1)))
	assert.Equal(t, 31, DaysBetween(date(2024, 1, 15), date(2024, 2, 15)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-01-18 ")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 18), d)

	_, err = ParseDate("18/01/2024")
	assert.Error(t, err)
}
