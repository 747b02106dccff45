package contentcmd

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-site/internal/collections"
)

// Report summarises one validation run.
type Report struct {
	RunID       uuid.UUID
	StartedAt   time.Time
	Duration    time.Duration
	// Strict runs treat duplicate section ids as failures.
	Strict      bool
	Collections []CollectionReport
}

// CollectionReport is the outcome for one collection.
type CollectionReport struct {
	Name    collections.Name
	Entries int
	// Failures are entries rejected by schema, date or image checks.
	Failures []*collections.ValidationError
	// Errors are entries that could not be read or parsed.
	Errors []error
	// DuplicateSections maps a page id to the section ids it repeats.
	DuplicateSections map[string][]string
}

// Valid reports whether no entry failed. Strict runs also require that no
// page repeats a section id.
func (r *Report) Valid() bool {
	if r.FailureCount() > 0 {
		return false
	}
	return r == nil || !r.Strict || r.DuplicateCount() == 0
}

// DuplicateCount counts pages that repeat a section id.
func (r *Report) DuplicateCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, c := range r.Collections {
		count += len(c.DuplicateSections)
	}
	return count
}

// FailureCount counts rejected entries across collections.
func (r *Report) FailureCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, c := range r.Collections {
		count += len(c.Failures) + len(c.Errors)
	}
	return count
}

// EntryCount counts accepted entries across collections.
func (r *Report) EntryCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, c := range r.Collections {
		count += c.Entries
	}
	return count
}

// Lines renders every problem of the run as "path: field: message" lines,
// followed by duplicate section warnings.
func (r *Report) Lines() []string {
	if r == nil {
		return nil
	}
	var lines []string
	for _, c := range r.Collections {
		for _, failure := range c.Failures {
			lines = append(lines, failure.Lines()...)
		}
		for _, err := range c.Errors {
			lines = append(lines, err.Error())
		}
		for _, err := range duplicateSectionErrors(c.Name, c.DuplicateSections) {
			lines = append(lines, err.Error())
		}
	}
	return lines
}
