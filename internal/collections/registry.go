package collections

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/goliatone/go-site/internal/sections"
	"github.com/goliatone/go-site/internal/validation"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Registry validates raw records of every collection. Schemas are compiled
// once in NewRegistry; a Registry is read-only afterwards and safe for
// concurrent use.
type Registry struct {
	schemas  map[Name]*validation.Schema
	sections *sections.Validator
	assets   fs.FS
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithAssetFS enables image checks: relative image references must exist in
// assets, resolved against the directory of the entry's file path.
func WithAssetFS(assets fs.FS) RegistryOption {
	return func(r *Registry) {
		r.assets = assets
	}
}

// NewRegistry compiles the embedded collection and section schemas.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	sectionValidator, err := sections.NewValidator()
	if err != nil {
		return nil, err
	}

	schemas := make(map[Name]*validation.Schema, len(Names()))
	for _, name := range Names() {
		source, err := schemaFiles.ReadFile("schemas/" + string(name) + ".json")
		if err != nil {
			return nil, fmt.Errorf("collections: read schema %s: %w", name, err)
		}
		schemas[name] = validation.MustCompile(string(name), source)
	}

	registry := &Registry{
		schemas:  schemas,
		sections: sectionValidator,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(registry)
		}
	}
	return registry, nil
}

// Schema exposes the compiled schema of a collection.
func (r *Registry) Schema(name Name) (*validation.Schema, bool) {
	schema, ok := r.schemas[name]
	return schema, ok
}

// Validate runs the full pipeline for one record of collection name:
// normalise, preprocess, validate, validate sections, apply defaults,
// coerce dates, resolve images and decode. Every issue of the record is
// returned in a single *ValidationError.
func (r *Registry) Validate(name Name, record Record) (Document, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}

	fail := func(issues []validation.ValidationIssue) error {
		return &ValidationError{
			Collection: name,
			EntryID:    record.ID,
			FilePath:   record.FilePath,
			Issues:     issues,
		}
	}

	data, err := validation.NormalizeObject(record.Data)
	if err != nil {
		return nil, fail([]validation.ValidationIssue{validation.NewIssue("", "data must be an object: %v", err)})
	}

	preprocess(name, data)

	var issues []validation.ValidationIssue
	if err := schema.Validate(data); err != nil {
		issues = append(issues, validation.Issues(err)...)
	}

	if name == CollectionPages {
		if list, ok := data["sections"].([]any); ok {
			issues = append(issues, validation.PrefixIssues("/sections", r.sections.ValidateList(list))...)
		}
	}

	schema.ApplyDefaults(data)

	issues = append(issues, coerceDates(name, data)...)

	images, imageIssues := r.resolveImages(name, record.FilePath, data)
	issues = append(issues, imageIssues...)

	if len(issues) > 0 {
		validation.SortIssues(issues)
		return nil, fail(issues)
	}

	doc := newDocument(name)
	if err := decode(data, doc); err != nil {
		return nil, fail([]validation.ValidationIssue{validation.NewIssue("", "decode: %v", err)})
	}
	applyResolvedImages(doc, images)
	return doc, nil
}

// ValidateBlogPost validates a blog post record.
func (r *Registry) ValidateBlogPost(record Record) (*BlogPost, error) {
	doc, err := r.Validate(CollectionBlogPosts, record)
	if err != nil {
		return nil, err
	}
	return doc.(*BlogPost), nil
}

// ValidateLegalPage validates a legal page record.
func (r *Registry) ValidateLegalPage(record Record) (*LegalPage, error) {
	doc, err := r.Validate(CollectionLegal, record)
	if err != nil {
		return nil, err
	}
	return doc.(*LegalPage), nil
}

// ValidatePage validates a page record including all of its sections.
func (r *Registry) ValidatePage(record Record) (*Page, error) {
	doc, err := r.Validate(CollectionPages, record)
	if err != nil {
		return nil, err
	}
	return doc.(*Page), nil
}

// ValidateSettings validates a settings record.
func (r *Registry) ValidateSettings(record Record) (*Settings, error) {
	doc, err := r.Validate(CollectionSettings, record)
	if err != nil {
		return nil, err
	}
	return doc.(*Settings), nil
}

// ValidateLinktree validates a link-tree profile record.
func (r *Registry) ValidateLinktree(record Record) (*LinktreeProfile, error) {
	doc, err := r.Validate(CollectionLinktree, record)
	if err != nil {
		return nil, err
	}
	return doc.(*LinktreeProfile), nil
}

func coerceDates(name Name, data map[string]any) []validation.ValidationIssue {
	var issues []validation.ValidationIssue
	for _, field := range dateFields[name] {
		value, ok := data[field]
		if !ok {
			continue
		}
		switch value.(type) {
		case string, float64:
		default:
			// Reported by the schema.
			continue
		}
		parsed, err := CoerceDate(value)
		if err != nil {
			issues = append(issues, validation.NewIssue(validation.Pointer(field), "%v", err))
			continue
		}
		data[field] = parsed.Format(time.RFC3339Nano)
	}
	return issues
}

func (r *Registry) resolveImages(name Name, filePath string, data map[string]any) (map[string]string, []validation.ValidationIssue) {
	var issues []validation.ValidationIssue
	resolved := map[string]string{}
	for _, keys := range imageFields[name] {
		value, ok := lookup(data, keys)
		if !ok {
			continue
		}
		src, ok := value.(string)
		if !ok {
			continue
		}
		pointer := pointerOf(keys)
		target, err := ResolveImage(r.assets, filePath, src)
		if err != nil {
			issues = append(issues, validation.NewIssue(pointer, "%v", err))
			continue
		}
		resolved[pointer] = target
	}
	return resolved, issues
}

func applyResolvedImages(doc Document, resolved map[string]string) {
	post, ok := doc.(*BlogPost)
	if !ok {
		return
	}
	if post.Cover != nil {
		post.Cover.Resolved = resolved[pointerOf([]string{"cover"})]
	}
	if post.Author.Img != nil {
		post.Author.Img.Resolved = resolved[pointerOf([]string{"author", "img"})]
	}
}

func pointerOf(keys []string) string {
	tokens := make([]any, len(keys))
	for i, key := range keys {
		tokens[i] = key
	}
	return validation.Pointer(tokens...)
}

func newDocument(name Name) Document {
	switch name {
	case CollectionBlogPosts:
		return &BlogPost{}
	case CollectionLegal:
		return &LegalPage{}
	case CollectionPages:
		return &Page{}
	case CollectionSettings:
		return &Settings{}
	case CollectionLinktree:
		return &LinktreeProfile{}
	default:
		return nil
	}
}

func decode(data map[string]any, doc Document) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(encoded, doc); err != nil {
		return err
	}
	if settings, ok := doc.(*Settings); ok && len(settings.SocialLinks) == 0 {
		settings.SocialLinks = nil
	}
	return nil
}
