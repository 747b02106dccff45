package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-site/pkg/interfaces"
)

// ParseFrontMatter splits source into its front-matter map and the Markdown
// body without delimiters. A file without front-matter yields an empty map.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return NormalizeValues(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from a file path, its raw
// content and modification time. BodyHTML stays empty until rendered.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

// NormalizeValues rewrites YAML decoded values into the shapes encoding/json
// produces: maps keyed by any become map[string]any and nested slices are
// walked. Scalars are left untouched.
func NormalizeValues(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return NormalizeValues(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			out[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return value
	}
}
