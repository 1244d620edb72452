package importer

import (
	"cmp"
	_ "embed"
	"fmt"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/registry"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in sample board.
func DefaultSeed() (*SeedFile, error) {
	return Parse(defaultSeed, FormatYAML)
}

// DefaultSeedYAML returns a copy of the sample board source.
func DefaultSeedYAML() []byte {
	return append([]byte(nil), defaultSeed...)
}

// recordDates resolves the start/end pair of a record that already passed
// validation. A due-only record becomes a one-day task on its due date.
func recordDates(rec TaskImport) (time.Time, time.Time) {
	parse := func(s string) time.Time {
		d, _ := domain.ParseDate(s)
		return d
	}
	due := parse(rec.DueDate)
	start, end := due, due
	if rec.StartDate != "" {
		start = parse(rec.StartDate)
	}
	if rec.EndDate != "" {
		end = parse(rec.EndDate)
	}
	return start, end
}

// Convert maps validated records to domain tasks. Call ValidateSeed first.
// Blank vocabulary fields are left for the registry to default.
func Convert(seed *SeedFile) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(seed.Tasks))
	for i, rec := range seed.Tasks {
		start, end := recordDates(rec)
		t := domain.Task{
			ID:          rec.ID,
			Name:        cmp.Or(rec.Name, rec.Title),
			StartDate:   start,
			EndDate:     end,
			Progress:    domain.CoalescePtr(rec.Progress, 0),
			Assignee:    rec.Assignee,
			Description: rec.Description,
			Project:     rec.Project,
		}
		if rec.Priority != "" {
			p, err := domain.ParsePriority(rec.Priority)
			if err != nil {
				return nil, fmt.Errorf("tasks[%d]: %w", i, err)
			}
			t.Priority = p
		}
		if rec.Status != "" {
			s, err := domain.ParseStatus(rec.Status)
			if err != nil {
				return nil, fmt.Errorf("tasks[%d]: %w", i, err)
			}
			t.Status = s
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Load validates, converts and adds every seed record to reg. Either all
// records are added or none are; on failure reg is left as it was.
func Load(reg *registry.Registry, seed *SeedFile) ([]domain.Task, error) {
	if errs := ValidateSeed(seed); len(errs) > 0 {
		return nil, FormatErrors(errs)
	}
	tasks, err := Convert(seed)
	if err != nil {
		return nil, err
	}

	added := make([]domain.Task, 0, len(tasks))
	for i, t := range tasks {
		stored, err := reg.Add(t)
		if err != nil {
			for _, a := range added {
				_ = reg.Remove(a.ID)
			}
			return nil, fmt.Errorf("adding tasks[%d] %q: %w", i, t.Name, err)
		}
		added = append(added, stored)
	}
	return added, nil
}
