// Package collections validates and loads the content collections of the
// site: blog posts, legal pages, pages, settings and the link-tree profile.
//
// Raw records are checked by a Registry, which normalises, validates,
// defaults and coerces them into typed documents. A Service walks the
// content directories, feeds every file through the Registry and returns
// entries ready for rendering.
package collections

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-site/internal/sections"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Name identifies a collection.
type Name string

const (
	CollectionBlogPosts Name = "blogposts"
	CollectionLegal     Name = "legal"
	CollectionPages     Name = "pages"
	CollectionSettings  Name = "settings"
	CollectionLinktree  Name = "linktree"
)

// Names lists every collection in load order.
func Names() []Name {
	return []Name{
		CollectionBlogPosts,
		CollectionLegal,
		CollectionPages,
		CollectionSettings,
		CollectionLinktree,
	}
}

// ParseName resolves a collection name case-insensitively.
func ParseName(value string) (Name, bool) {
	candidate := Name(strings.ToLower(strings.TrimSpace(value)))
	for _, name := range Names() {
		if name == candidate {
			return name, true
		}
	}
	return "", false
}

// Record is the raw data loaded from one content file.
type Record struct {
	ID         string
	Collection Name
	FilePath   string
	Data       map[string]any
	// Body is the Markdown body, empty for JSON files.
	Body []byte
}

// Document is a validated, typed collection document.
type Document interface {
	CollectionName() Name
}

// ImageRef is an image reference as authored together with the asset path it
// resolved to. It marshals to the authored string.
type ImageRef struct {
	Src string
	// Resolved is the slash separated asset path, empty for remote and
	// root-absolute references.
	Resolved string
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Src)
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var src string
	if err := json.Unmarshal(data, &src); err != nil {
		return err
	}
	r.Src = src
	r.Resolved = ""
	return nil
}

type Author struct {
	Name string    `json:"name"`
	Img  *ImageRef `json:"img,omitempty"`
}

type BlogPost struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PubDate        time.Time  `json:"pubDate"`
	LastMaintained *time.Time `json:"lastMaintained,omitempty"`
	Author         Author     `json:"author"`
	Cover          *ImageRef  `json:"cover,omitempty"`
	CoverAlt       string     `json:"coverAlt"`
	Categories     []string   `json:"categories"`
}

type LegalPage struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	OGImage         string `json:"ogImage,omitempty"`
}

type Page struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	IsHomepage  bool          `json:"isHomepage"`
	Description string        `json:"description,omitempty"`
	SEO         *SEO          `json:"seo,omitempty"`
	Sections    sections.List `json:"sections"`
}

// DuplicateSectionIDs lists section ids used more than once on the page.
func (p *Page) DuplicateSectionIDs() []string {
	return p.Sections.DuplicateIDs()
}

type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

type Settings struct {
	Logo        string       `json:"logo,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty"`
}

type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type LinktreeProfile struct {
	OwnerName  string `json:"ownerName"`
	OwnerTitle string `json:"ownerTitle"`
	Logo       string `json:"logo,omitempty"`
	Links      []Link `json:"links"`
}

func (*BlogPost) CollectionName() Name        { return CollectionBlogPosts }
func (*LegalPage) CollectionName() Name       { return CollectionLegal }
func (*Page) CollectionName() Name            { return CollectionPages }
func (*Settings) CollectionName() Name        { return CollectionSettings }
func (*LinktreeProfile) CollectionName() Name { return CollectionLinktree }

// Entry is a validated document ready for the rendering layer.
type Entry struct {
	ID         string
	UUID       uuid.UUID
	Collection Name
	FilePath   string
	Data       Document
	Body       []byte
	// Rendered holds the HTML and the annotated front-matter of Markdown
	// entries. It is nil for JSON entries.
	Rendered *interfaces.Document
}

// HTML returns the rendered Markdown body, if any.
func (e *Entry) HTML() []byte {
	if e == nil || e.Rendered == nil {
		return nil
	}
	return e.Rendered.BodyHTML
}

// MinutesRead returns the reading time annotation of Markdown entries.
func (e *Entry) MinutesRead() string {
	if e == nil || e.Rendered == nil {
		return ""
	}
	return e.Rendered.MinutesRead()
}
