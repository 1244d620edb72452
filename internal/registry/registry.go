// Package registry holds the authoritative in-memory collection of tasks.
//
// A Registry has exactly one logical writer. It does no locking; callers
// that share an instance across goroutines must serialize access themselves.
package registry

import (
	"slices"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/google/uuid"
)

// Registry stores tasks in insertion order.
type Registry struct {
	tasks []domain.Task
	index map[string]int
}

func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add validates t, assigns a fresh id when t.ID is empty, and appends it.
// Status defaults to not_started and priority to medium. On error the
// registry is unchanged.
func (r *Registry) Add(t domain.Task) (domain.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	} else if _, exists := r.index[t.ID]; exists {
		return domain.Task{}, &domain.ValidationError{Field: "id", Reason: "duplicate id " + t.ID}
	}
	if t.Status == "" {
		t.Status = domain.StatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	t.StartDate = domain.Day(t.StartDate)
	t.EndDate = domain.Day(t.EndDate)

	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}

	r.index[t.ID] = len(r.tasks)
	r.tasks = append(r.tasks, t)
	return t, nil
}

// Update merges patch into the task with the given id and re-validates.
// The stored task is replaced only when the merged result is valid.
func (r *Registry) Update(id string, patch domain.TaskPatch) (domain.Task, error) {
	i, ok := r.index[id]
	if !ok {
		return domain.Task{}, &domain.NotFoundError{ID: id}
	}
	merged := patch.Apply(r.tasks[i])
	if err := merged.Validate(); err != nil {
		return domain.Task{}, err
	}
	r.tasks[i] = merged
	return merged, nil
}

// Remove deletes the task with the given id. Removing an unknown id is an
// error, not a no-op.
func (r *Registry) Remove(id string) error {
	i, ok := r.index[id]
	if !ok {
		return &domain.NotFoundError{ID: id}
	}
	r.tasks = slices.Delete(r.tasks, i, i+1)
	delete(r.index, id)
	for j := i; j < len(r.tasks); j++ {
		r.index[r.tasks[j].ID] = j
	}
	return nil
}

func (r *Registry) Get(id string) (domain.Task, error) {
	i, ok := r.index[id]
	if !ok {
		return domain.Task{}, &domain.NotFoundError{ID: id}
	}
	return r.tasks[i], nil
}

// List returns a copy of all tasks in insertion order.
func (r *Registry) List() []domain.Task {
	return slices.Clone(r.tasks)
}

func (r *Registry) Len() int {
	return len(r.tasks)
}
