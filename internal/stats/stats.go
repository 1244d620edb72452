// Package stats reduces a task list into the counters shown on summary cards.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// DueSoonDays is the inclusive upper bound of the due-soon window.
const DueSoonDays = 3

// Urgency buckets a due date relative to now.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyDueSoon  Urgency = "due_soon"
	UrgencyUpcoming Urgency = "upcoming"
)

// Summary holds the aggregate counters for one pass over the task list.
type Summary struct {
	Total           int
	Overdue         int
	DueSoon         int
	ByStatus        map[domain.TaskStatus]int
	ByPriority      map[domain.Priority]int
	AverageProgress float64
}

// DaysUntilDue returns ceil((due - now) / 1 day). Negative means overdue.
func DaysUntilDue(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// Classify buckets a due date relative to now.
func Classify(due, now time.Time) Urgency {
	days := DaysUntilDue(due, now)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= DueSoonDays:
		return UrgencyDueSoon
	default:
		return UrgencyUpcoming
	}
}

// DueLabel renders the countdown text for a due date.
func DueLabel(due, now time.Time) string {
	days := DaysUntilDue(due, now)
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// Compute recomputes every counter from scratch. It is cheap for the
// dataset sizes involved and is meant to run after every mutation.
// Completed tasks still count toward overdue and due-soon.
func Compute(tasks []domain.Task, now time.Time) Summary {
	s := Summary{
		Total:      len(tasks),
		ByStatus:   make(map[domain.TaskStatus]int, len(domain.Statuses)),
		ByPriority: make(map[domain.Priority]int, len(domain.Priorities)),
	}
	for _, st := range domain.Statuses {
		s.ByStatus[st] = 0
	}
	for _, p := range domain.Priorities {
		s.ByPriority[p] = 0
	}

	var progressSum int
	for _, t := range tasks {
		switch Classify(t.DueDate(), now) {
		case UrgencyOverdue:
			s.Overdue++
		case UrgencyDueSoon:
			s.DueSoon++
		}
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
		progressSum += t.Progress
	}
	if len(tasks) > 0 {
		s.AverageProgress = float64(progressSum) / float64(len(tasks))
	}
	return s
}
