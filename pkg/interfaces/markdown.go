package interfaces

import "time"

// MarkdownParser converts Markdown source into HTML.
type MarkdownParser interface {
	// Parse renders using the parser defaults.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions renders using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering. Names stay flat so the struct
// can be filled from YAML configuration and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Document is a Markdown file split into front-matter and body. BodyHTML and
// the minutesRead entry in FrontMatter are filled once the body is rendered.
type Document struct {
	FilePath     string
	FrontMatter  map[string]any
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum is the SHA-256 digest of the source file.
	Checksum []byte
}

// MinutesRead returns the reading time annotation, if present.
func (d *Document) MinutesRead() string {
	if d == nil || d.FrontMatter == nil {
		return ""
	}
	value, _ := d.FrontMatter["minutesRead"].(string)
	return value
}
