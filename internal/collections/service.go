package collections

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-site/internal/identity"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/internal/validation"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Collection is the validated content of one collection, in file path order.
type Collection struct {
	Name    Name
	Entries []*Entry
	index   map[string]*Entry
}

// Get returns the entry with id.
func (c *Collection) Get(id string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c.index[id]
	return entry, ok
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefinitions replaces the default collection layout.
func WithDefinitions(defs ...Definition) ServiceOption {
	return func(s *Service) {
		s.definitions = append([]Definition(nil), defs...)
	}
}

// Service loads collections from the content filesystem the Markdown
// service is rooted at.
type Service struct {
	registry    *Registry
	markdown    *markdown.Service
	definitions []Definition
	logger      interfaces.Logger
}

// NewService wires a registry and a Markdown service into a collection
// loader. The Markdown service's loader is shared for JSON discovery.
func NewService(registry *Registry, md *markdown.Service, opts ...ServiceOption) *Service {
	s := &Service{
		registry:    registry,
		markdown:    md,
		definitions: DefaultDefinitions(),
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Definitions returns the configured collection layout.
func (s *Service) Definitions() []Definition {
	return append([]Definition(nil), s.definitions...)
}

// Definition returns the layout of collection name.
func (s *Service) Definition(name Name) (Definition, bool) {
	for _, def := range s.definitions {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Load reads, validates and indexes every file of collection name. Files
// that fail are left out and reported together in a *LoadError; the
// returned collection is usable either way. A missing base directory is an
// empty collection.
func (s *Service) Load(ctx context.Context, name Name) (*Collection, error) {
	def, ok := s.Definition(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}

	ctx = logging.ContextWithFields(ctx, map[string]any{"collection": string(name)})
	logger := logging.FromContext(ctx, s.logger)

	files, err := s.markdown.Loader().Discover(ctx, def.Base, markdown.LoadParams{Pattern: def.Pattern})
	if err != nil {
		return nil, fmt.Errorf("collections: discover %s: %w", name, err)
	}

	collection := &Collection{Name: name, index: map[string]*Entry{}}
	var ordered []*Entry
	var failures []error

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := s.loadEntry(ctx, def, file)
		if err != nil {
			logging.WithEntryContext(logger, "", file, "").Warn("collections.entry.rejected", "error", err)
			failures = append(failures, err)
			continue
		}

		if previous, exists := collection.index[entry.ID]; exists {
			logging.WithEntryContext(logger, "", entry.FilePath, entry.ID).Warn(
				"collections.entry.duplicate_id",
				"previous", previous.FilePath,
			)
		}
		collection.index[entry.ID] = entry
		ordered = append(ordered, entry)
	}

	for _, entry := range ordered {
		if collection.index[entry.ID] == entry {
			collection.Entries = append(collection.Entries, entry)
		}
	}

	logger.Debug("collections.loaded", "entries", len(collection.Entries), "failed", len(failures))

	if len(failures) > 0 {
		return collection, &LoadError{Collection: name, Failures: failures}
	}
	return collection, nil
}

func (s *Service) loadEntry(ctx context.Context, def Definition, file string) (*Entry, error) {
	format, ok := FormatOf(file)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, file)
	}

	var (
		data     map[string]any
		body     []byte
		rendered *interfaces.Document
	)

	switch format {
	case FormatMarkdown:
		doc, err := s.markdown.Load(ctx, file, interfaces.ParseOptions{})
		if err != nil {
			return nil, fmt.Errorf("collections: %s: %w", file, err)
		}
		data, body, rendered = doc.FrontMatter, doc.Body, doc
	case FormatJSON:
		src, err := s.markdown.Loader().ReadFile(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("collections: %s: %w", file, err)
		}
		var raw any
		if err := json.Unmarshal(src.Data, &raw); err != nil {
			return nil, fmt.Errorf("collections: %s: parse json: %w", file, err)
		}
		object, ok := raw.(map[string]any)
		if !ok {
			return nil, &ValidationError{
				Collection: def.Name,
				FilePath:   file,
				Issues:     []validation.ValidationIssue{validation.NewIssue("", "document must be a JSON object")},
			}
		}
		data = object
	}

	id := EntryID(def.Base, file, data)
	record := Record{
		ID:         id,
		Collection: def.Name,
		FilePath:   file,
		Data:       data,
		Body:       body,
	}

	doc, err := s.registry.Validate(def.Name, record)
	if err != nil {
		return nil, err
	}

	return &Entry{
		ID:         id,
		UUID:       identity.EntryUUID(string(def.Name), id),
		Collection: def.Name,
		FilePath:   file,
		Data:       doc,
		Body:       body,
		Rendered:   rendered,
	}, nil
}

// EntryID derives the id of an entry: the "slug" field when it yields a
// non-empty id, otherwise the file path relative to base without its extension.
// Each path segment is normalised to a slug.
func EntryID(base, filePath string, data map[string]any) string {
	if value, ok := data["slug"].(string); ok {
		if id := normalizeID(value); id != "" {
			return id
		}
	}

	rel := filePath
	base = strings.Trim(path.Clean("/"+base), "/")
	if base != "" {
		rel = strings.TrimPrefix(strings.TrimPrefix(filePath, base), "/")
	}
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return normalizeID(rel)
}

func normalizeID(value string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(value), "/"), "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		normalized, err := slug.Normalize(segment)
		if err != nil || normalized == "" {
			normalized = strings.ToLower(segment)
		}
		out = append(out, normalized)
	}
	return strings.Join(out, "/")
}
