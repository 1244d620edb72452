package importer

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// ValidateSeed checks every record and returns all problems found.
// A nil result means Convert will succeed.
func ValidateSeed(seed *SeedFile) []error {
	var errs []error
	ids := make(map[string]int)

	for i, rec := range seed.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if strings.TrimSpace(cmp.Or(rec.Name, rec.Title)) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if rec.ID != "" {
			if first, dup := ids[rec.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (first used by tasks[%d])", prefix, rec.ID, first))
			} else {
				ids[rec.ID] = i
			}
		}

		errs = append(errs, validateDates(prefix, rec)...)

		if rec.Progress != nil && (*rec.Progress < 0 || *rec.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress: %d out of range [0,100]", prefix, *rec.Progress))
		}
		if rec.Priority != "" {
			if _, err := domain.ParsePriority(rec.Priority); err != nil {
				errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, rec.Priority))
			}
		}
		if rec.Status != "" {
			if _, err := domain.ParseStatus(rec.Status); err != nil {
				errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, rec.Status))
			}
		}
	}

	return errs
}

func validateDates(prefix string, rec TaskImport) []error {
	var errs []error
	parsed := map[string]bool{}

	check := func(field, value string) {
		if value == "" {
			return
		}
		if _, err := domain.ParseDate(value); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: invalid date format %q (expected YYYY-MM-DD)", prefix, field, value))
			return
		}
		parsed[field] = true
	}
	check("start_date", rec.StartDate)
	check("end_date", rec.EndDate)
	check("due_date", rec.DueDate)
	if len(errs) > 0 {
		return errs
	}

	if rec.StartDate == "" && rec.DueDate == "" {
		errs = append(errs, fmt.Errorf("%s.start_date is required (or give due_date)", prefix))
	}
	if rec.EndDate == "" && rec.DueDate == "" {
		errs = append(errs, fmt.Errorf("%s.end_date is required (or give due_date)", prefix))
	}
	if rec.EndDate != "" && rec.DueDate != "" && rec.EndDate != rec.DueDate {
		errs = append(errs, fmt.Errorf("%s.due_date %q conflicts with end_date %q", prefix, rec.DueDate, rec.EndDate))
	}
	if len(errs) > 0 {
		return errs
	}

	start, end := recordDates(rec)
	if start.After(end) {
		errs = append(errs, fmt.Errorf("%s.start_date %q must not be after end date %q",
			prefix, start.Format(domain.DateLayout), end.Format(domain.DateLayout)))
	}
	return errs
}

// FormatErrors joins the collected errors into a single multi-line error.
func FormatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msg := fmt.Sprintf("seed validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
