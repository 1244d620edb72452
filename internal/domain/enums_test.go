package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority_BothVocabularies(t *testing.T) {
	cases := map[string]Priority{
		"Low":      PriorityLow,
		"Medium":   PriorityMedium,
		"High":     PriorityHigh,
		"medium":   PriorityMedium,
		"high":     PriorityHigh,
		"critical": PriorityCritical,
		" HIGH ":   PriorityHigh,
	}
	for in, want := range cases {
		got, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPriorityRank_TotalOrder(t *testing.T) {
	for i := 1; i < len(Priorities); i++ {
		assert.Less(t, Priorities[i-1].Rank(), Priorities[i].Rank())
	}
	assert.Equal(t, 0, Priority("bogus").Rank())
	assert.Equal(t, "Critical", PriorityCritical.Label())
}

func TestParseStatus_BothVocabularies(t *testing.T) {
	cases := map[string]TaskStatus{
		"Not Started": StatusNotStarted,
		"not-started": StatusNotStarted,
		"In Progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"Completed":   StatusCompleted,
		"pending":     StatusPending,
		"planning":    StatusPlanning,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("blocked")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestStatusLabelAndNext(t *testing.T) {
	assert.Equal(t, "Not Started", StatusNotStarted.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, StatusPlanning, StatusNotStarted.Next())
	assert.Equal(t, StatusNotStarted, StatusCompleted.Next())
}

func TestGranularityConstants(t *testing.T) {
	cases := []struct {
		g       Granularity
		step    int
		horizon int
		cell    float64
	}{
		{GranularityDay, 1, 30, 40},
		{GranularityWeek, 7, 84, 80},
		{GranularityMonth, 30, 365, 128},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.step, tc.g.StepDays(), tc.g)
		assert.Equal(t, tc.horizon, tc.g.HorizonDays(), tc.g)
		assert.Equal(t, tc.cell, tc.g.CellWidth(), tc.g)
	}
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{"days": GranularityDay, "Week": GranularityWeek, "months": GranularityMonth} {
		got, err := ParseGranularity(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseGranularity("year")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation failed: progress: must be within [0,100]",
		(&ValidationError{Field: "progress", Reason: "must be within [0,100]"}).Error())
	assert.Equal(t, "task abc: not found", (&NotFoundError{ID: "abc"}).Error())
	assert.ErrorIs(t, &NotFoundError{ID: "abc"}, ErrNotFound)
	assert.NotErrorIs(t, &NotFoundError{ID: "abc"}, ErrValidation)
}
