package collections

import (
	"path"
	"strings"
)

// Definition tells the Service where the files of a collection live.
type Definition struct {
	Name Name
	// Base is the slash separated directory relative to the content root.
	Base string
	// Pattern selects files below Base. Brace alternatives are expanded and
	// a "**/" segment turns on recursion.
	Pattern string
}

// DefaultDefinitions returns the standard content layout of the site.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: CollectionBlogPosts, Base: "modules/blog/content/blogposts", Pattern: "**/*.{mdx,md}"},
		{Name: CollectionLegal, Base: "src/content/legal", Pattern: "**/*.md"},
		{Name: CollectionPages, Base: "src/content/pages", Pattern: "**/*.json"},
		{Name: CollectionSettings, Base: "src/content/settings", Pattern: "**/*.json"},
		{Name: CollectionLinktree, Base: "src/content/linktree", Pattern: "**/*.json"},
	}
}

// Format is the file format of a content file.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// FormatOf derives the format from the file extension.
func FormatOf(filePath string) (Format, bool) {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".md", ".mdx", ".markdown":
		return FormatMarkdown, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}
