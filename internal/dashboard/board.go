// Package dashboard ties the task registry and the timeline cursor together
// and recomputes every derived view on request.
package dashboard

import (
	"sync"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/alexanderramin/linimasa/internal/stats"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/charmbracelet/log"
)

// Deadline is one entry of the nearest-first deadline list.
type Deadline struct {
	Task         domain.Task
	DaysUntilDue int
	Urgency      stats.Urgency
	Label        string
}

// Snapshot is everything the rendering boundary needs for one frame.
type Snapshot struct {
	View      timeline.ViewState
	Now       time.Time
	Ticks     []timeline.Tick
	Bars      []timeline.TaskBar
	Stats     stats.Summary
	Deadlines []Deadline
}

// Board owns the registry and view cursor for one dashboard session. The
// registry and view are single-writer; Board methods serialize access so the
// HTTP handlers, the TUI loop and chat digests can share one board. Touch
// Tasks and View directly only before the board is shared.
type Board struct {
	Tasks *registry.Registry
	View  *timeline.ViewState

	mu     sync.RWMutex
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

func WithLogger(l *log.Logger) Option {
	return func(b *Board) {
		b.logger = l
	}
}

// NewBoard builds a board over reg and view. Nil arguments get fresh
// defaults: an empty registry and a day view anchored today.
func NewBoard(reg *registry.Registry, view *timeline.ViewState, opts ...Option) *Board {
	b := &Board{Tasks: reg, View: view, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	if b.Tasks == nil {
		b.Tasks = registry.New()
	}
	if b.View == nil {
		b.View = timeline.NewViewState(b.now(), domain.GranularityDay)
	}
	return b
}

// Now returns the board clock reading.
func (b *Board) Now() time.Time {
	return b.now()
}

// ViewState returns a copy of the view cursor.
func (b *Board) ViewState() timeline.ViewState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return *b.View
}

// Navigate moves the view cursor with fn while holding the write lock.
func (b *Board) Navigate(fn func(v *timeline.ViewState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.View)
}

// List returns the tasks in insertion order.
func (b *Board) List() []domain.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.Tasks.List()
}

// Get returns the task with the given id.
func (b *Board) Get(id string) (domain.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.Tasks.Get(id)
}

// Snapshot recomputes ticks, bars, stats and deadlines from current state.
func (b *Board) Snapshot() Snapshot {
	now := b.now()
	b.mu.RLock()
	view := *b.View
	tasks := b.Tasks.List()
	b.mu.RUnlock()

	return Snapshot{
		View:      view,
		Now:       now,
		Ticks:     timeline.Ticks(view),
		Bars:      timeline.LayoutAll(tasks, view),
		Stats:     stats.Compute(tasks, now),
		Deadlines: Deadlines(tasks, now),
	}
}

// Deadlines lists tasks nearest due date first with their urgency.
func Deadlines(tasks []domain.Task, now time.Time) []Deadline {
	sorted := registry.Sorted(tasks, registry.SortDue)
	out := make([]Deadline, len(sorted))
	for i, t := range sorted {
		out[i] = Deadline{
			Task:         t,
			DaysUntilDue: stats.DaysUntilDue(t.DueDate(), now),
			Urgency:      stats.Classify(t.DueDate(), now),
			Label:        stats.DueLabel(t.DueDate(), now),
		}
	}
	return out
}

// AddTask adds a task to the registry.
func (b *Board) AddTask(t domain.Task) (domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored, err := b.Tasks.Add(t)
	if err != nil {
		b.logger.Warn("task add rejected", "name", t.Name, "err", err)
		return domain.Task{}, err
	}
	b.logger.Debug("task added", "id", stored.ID, "name", stored.Name)
	return stored, nil
}

// UpdateTask applies patch to the task with the given id.
func (b *Board) UpdateTask(id string, patch domain.TaskPatch) (domain.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	updated, err := b.Tasks.Update(id, patch)
	if err != nil {
		b.logger.Warn("task update rejected", "id", id, "err", err)
		return domain.Task{}, err
	}
	b.logger.Debug("task updated", "id", id)
	return updated, nil
}

// RemoveTask deletes the task with the given id.
func (b *Board) RemoveTask(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.Tasks.Remove(id); err != nil {
		b.logger.Warn("task remove rejected", "id", id, "err", err)
		return err
	}
	b.logger.Debug("task removed", "id", id)
	return nil
}
