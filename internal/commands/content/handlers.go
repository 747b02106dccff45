package contentcmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-site/internal/collections"
	"github.com/goliatone/go-site/internal/commands"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

const (
	validateOperation  = "content.validate"
	contentInvalidCode = "CONTENT_VALIDATION_FAILED"
)

var (
	// ErrContentInvalid is reported when at least one entry was rejected.
	ErrContentInvalid = errors.New("content command: content failed validation")
	// ErrBlogModuleDisabled is returned when blog posts are requested explicitly
	// while the blog module is off.
	ErrBlogModuleDisabled = errors.New("content command: blog module is disabled")
)

var _ command.Commander[ValidateContentCommand] = (*ValidateContentHandler)(nil)

// ContentLoader loads one collection. *collections.Service satisfies it.
type ContentLoader interface {
	Load(ctx context.Context, name collections.Name) (*collections.Collection, error)
}

// ValidateContentHandler validates collections through the shared command handler foundation.
type ValidateContentHandler struct {
	inner *commands.Handler[ValidateContentCommand]
}

// NewValidateContentHandler creates a handler bound to loader.
func NewValidateContentHandler(loader ContentLoader, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ValidateContentCommand]) *ValidateContentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ValidateContentCommand) error {
		if loader == nil {
			return errors.New("content command: loader is nil")
		}
		names, err := selectCollections(msg.Collections, gates)
		if err != nil {
			return err
		}

		report := &Report{RunID: uuid.New(), StartedAt: time.Now(), Strict: msg.Strict}
		runLogger := logging.WithRun(baseLogger, report.RunID.String())

		var loadErrs []error
		for _, name := range names {
			outcome, err := validateCollection(ctx, loader, runLogger, name)
			if err != nil {
				return err
			}
			report.Collections = append(report.Collections, outcome.CollectionReport)
			if outcome.loadErr != nil {
				loadErrs = append(loadErrs, outcome.loadErr)
			}
			if msg.Strict {
				loadErrs = append(loadErrs, duplicateSectionErrors(name, outcome.DuplicateSections)...)
			}
		}
		report.Duration = time.Since(report.StartedAt)

		logging.WithFields(runLogger, map[string]any{
			"collections": len(report.Collections),
			"entries":     report.EntryCount(),
			"failures":    report.FailureCount(),
		}).Info("content.command.validate.completed")

		if msg.ResultCallback != nil {
			msg.ResultCallback(report)
		}

		if len(loadErrs) > 0 {
			cause := errors.Join(append([]error{ErrContentInvalid}, loadErrs...)...)
			return commands.WrapValidation(cause, "content validation failed", contentInvalidCode)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateContentCommand]{
		commands.WithLogger[ValidateContentCommand](baseLogger),
		commands.WithOperation[ValidateContentCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateContentCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Collections) > 0 {
				fields["collections"] = strings.Join(msg.Collections, ",")
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateContentCommand].
func (h *ValidateContentHandler) Execute(ctx context.Context, msg ValidateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// duplicateSectionErrors turns duplicate section ids into errors ordered by
// page id.
func duplicateSectionErrors(name collections.Name, duplicates map[string][]string) []error {
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(duplicates)) {
		errs = append(errs, fmt.Errorf("%s/%s: duplicate section ids %v", name, id, duplicates[id]))
	}
	return errs
}

type collectionOutcome struct {
	CollectionReport
	loadErr error
}

func validateCollection(ctx context.Context, loader ContentLoader, logger interfaces.Logger, name collections.Name) (collectionOutcome, error) {
	outcome := collectionOutcome{CollectionReport: CollectionReport{Name: name}}

	collection, err := loader.Load(ctx, name)
	if err != nil {
		var loadErr *collections.LoadError
		if !errors.As(err, &loadErr) {
			return outcome, err
		}
		outcome.loadErr = err
		for _, failure := range loadErr.Failures {
			var validationErr *collections.ValidationError
			if errors.As(failure, &validationErr) {
				outcome.Failures = append(outcome.Failures, validationErr)
				continue
			}
			outcome.Errors = append(outcome.Errors, failure)
		}
	}

	outcome.Entries = collection.Len()
	if name != collections.CollectionPages || collection == nil {
		return outcome, nil
	}
	for _, entry := range collection.Entries {
		page, ok := entry.Data.(*collections.Page)
		if !ok {
			continue
		}
		dupes := page.DuplicateSectionIDs()
		if len(dupes) == 0 {
			continue
		}
		if outcome.DuplicateSections == nil {
			outcome.DuplicateSections = map[string][]string{}
		}
		outcome.DuplicateSections[entry.ID] = dupes
		logging.WithEntryContext(logger, string(name), entry.FilePath, entry.ID).
			Warn("content.command.validate.duplicate_section_ids", "section_ids", dupes)
	}
	return outcome, nil
}

func selectCollections(requested []string, gates FeatureGates) ([]collections.Name, error) {
	if len(requested) == 0 {
		names := make([]collections.Name, 0, len(collections.Names()))
		for _, name := range collections.Names() {
			if name == collections.CollectionBlogPosts && !gates.blogEnabled() {
				continue
			}
			names = append(names, name)
		}
		return names, nil
	}

	names := make([]collections.Name, 0, len(requested))
	seen := map[collections.Name]struct{}{}
	for _, raw := range requested {
		name, ok := collections.ParseName(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", collections.ErrUnknownCollection, raw)
		}
		if name == collections.CollectionBlogPosts && !gates.blogEnabled() {
			return nil, ErrBlogModuleDisabled
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
