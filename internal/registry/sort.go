package registry

import (
	"cmp"
	"slices"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// SortOrder names a view ordering for task lists.
type SortOrder string

const (
	SortInsertion SortOrder = "insertion"
	SortDue       SortOrder = "due"
	SortStart     SortOrder = "start"
	SortPriority  SortOrder = "priority"
)

// Sorted returns a new slice ordered by the given key. Ties keep their
// relative input order. The input slice is never modified.
func Sorted(tasks []domain.Task, order SortOrder) []domain.Task {
	out := slices.Clone(tasks)
	switch order {
	case SortDue:
		slices.SortStableFunc(out, func(a, b domain.Task) int {
			return a.DueDate().Compare(b.DueDate())
		})
	case SortStart:
		slices.SortStableFunc(out, func(a, b domain.Task) int {
			return a.StartDate.Compare(b.StartDate)
		})
	case SortPriority:
		// Highest priority first.
		slices.SortStableFunc(out, func(a, b domain.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		})
	}
	return out
}

// ParseSortOrder returns the named order, defaulting to insertion.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortInsertion:
		return SortInsertion, nil
	case SortDue, SortStart, SortPriority:
		return SortOrder(s), nil
	}
	return "", &domain.ValidationError{Field: "sort", Reason: "unknown order " + s}
}
