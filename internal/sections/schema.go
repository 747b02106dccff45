package sections

import (
	"embed"
	"fmt"

	"github.com/goliatone/go-site/internal/validation"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Validator checks raw section objects against the schema of their variant.
// It is read-only after construction.
type Validator struct {
	schemas map[Type]*validation.Schema
}

// NewValidator compiles the embedded schema of every section type.
func NewValidator() (*Validator, error) {
	schemas := make(map[Type]*validation.Schema, len(Types()))
	for _, t := range Types() {
		source, err := schemaFiles.ReadFile("schemas/" + string(t) + ".json")
		if err != nil {
			return nil, fmt.Errorf("sections: read schema %s: %w", t, err)
		}
		schemas[t] = validation.MustCompile("section-"+string(t), source)
	}
	return &Validator{schemas: schemas}, nil
}

// Schema returns the compiled schema for t.
func (v *Validator) Schema(t Type) (*validation.Schema, bool) {
	schema, ok := v.schemas[t]
	return schema, ok
}

// Defaults returns the defaults declared for t.
func (v *Validator) Defaults(t Type) map[string]any {
	schema, ok := v.schemas[t]
	if !ok {
		return map[string]any{}
	}
	return schema.Defaults()
}

// Validate checks one JSON-normalised section. The type tag is resolved
// first; the element is then checked against that variant only. Issue
// locations are relative to the section itself. On success the defaults of
// the variant are applied to raw in place and its type is returned.
func (v *Validator) Validate(raw any) (Type, []validation.ValidationIssue) {
	object, ok := raw.(map[string]any)
	if !ok {
		return "", []validation.ValidationIssue{validation.NewIssue("", "section must be an object")}
	}

	value, present := object["type"]
	if !present {
		return "", []validation.ValidationIssue{validation.NewIssue("/type", "section type is required")}
	}
	tag, ok := value.(string)
	if !ok {
		return "", []validation.ValidationIssue{validation.NewIssue("/type", "section type must be a string")}
	}
	t := Type(tag)
	schema, known := v.schemas[t]
	if !known {
		return "", []validation.ValidationIssue{validation.NewIssue("/type", "unknown section type %q", tag)}
	}

	if err := schema.Validate(object); err != nil {
		return t, validation.Issues(err)
	}
	schema.ApplyDefaults(object)
	return t, nil
}

// ValidateList checks every element of a section array. Issue locations are
// prefixed with "/<index>" so callers can nest them under their own path.
func (v *Validator) ValidateList(raw []any) []validation.ValidationIssue {
	var issues []validation.ValidationIssue
	for i, item := range raw {
		if _, itemIssues := v.Validate(item); len(itemIssues) > 0 {
			issues = append(issues, validation.PrefixIssues(validation.Pointer(i), itemIssues)...)
		}
	}
	return issues
}
