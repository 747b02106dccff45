package collections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-site/internal/validation"
)

var (
	ErrUnknownCollection = errors.New("collections: unknown collection")
	ErrUnsupportedFormat = errors.New("collections: unsupported file format")
)

// ValidationError lists every issue found in one document. A document with
// any issue is rejected as a whole.
type ValidationError struct {
	Collection Name
	EntryID    string
	FilePath   string
	Issues     []validation.ValidationIssue
}

func (e *ValidationError) Error() string {
	subject := e.FilePath
	if subject == "" {
		subject = e.EntryID
	}
	if subject == "" {
		subject = string(e.Collection)
	}
	if len(e.Issues) == 0 {
		return fmt.Sprintf("collections: %s: %s", subject, validation.ErrSchemaValidation)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("collections: %s: %s", subject, strings.Join(parts, "; "))
}

// Unwrap exposes the issues as a *validation.PayloadValidationError, so
// validation.Issues and errors.Is(err, validation.ErrSchemaValidation) both
// see through a ValidationError.
func (e *ValidationError) Unwrap() error {
	return &validation.PayloadValidationError{Schema: string(e.Collection), Issues: e.Issues}
}

// Lines renders one "path: field: message" line per issue.
func (e *ValidationError) Lines() []string {
	subject := e.FilePath
	if subject == "" {
		subject = string(e.Collection) + "/" + e.EntryID
	}
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, subject+": "+issue.String())
	}
	return lines
}

// LoadError aggregates the per-file failures of one collection run. The
// failing files are left out of the loaded collection.
type LoadError struct {
	Collection Name
	Failures   []error
}

func (e *LoadError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("collections: %s: %v", e.Collection, e.Failures[0])
	}
	return fmt.Sprintf("collections: %s: %d entries failed", e.Collection, len(e.Failures))
}

func (e *LoadError) Unwrap() []error {
	return e.Failures
}

// ValidationErrors returns the failures that are document validation errors.
func (e *LoadError) ValidationErrors() []*ValidationError {
	var out []*ValidationError
	for _, failure := range e.Failures {
		var validationErr *ValidationError
		if errors.As(failure, &validationErr) {
			out = append(out, validationErr)
		}
	}
	return out
}

// IssueLines flattens err into "path: field: message" lines. Errors that
// carry no issues produce a single line with their message.
func IssueLines(err error) []string {
	if err == nil {
		return nil
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		var lines []string
		for _, failure := range loadErr.Failures {
			lines = append(lines, IssueLines(failure)...)
		}
		return lines
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Lines()
	}
	return []string{err.Error()}
}
