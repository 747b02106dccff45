package site

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"time"

	"github.com/goliatone/go-site/internal/collections"
	contentcmd "github.com/goliatone/go-site/internal/commands/content"
	"github.com/goliatone/go-site/internal/di"
	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/internal/projectconfig"
	"github.com/goliatone/go-site/pkg/interfaces"
)

type (
	CollectionName  = collections.Name
	Collection      = collections.Collection
	Entry           = collections.Entry
	BlogPost        = collections.BlogPost
	LegalPage       = collections.LegalPage
	Page            = collections.Page
	Settings        = collections.Settings
	LinktreeProfile = collections.LinktreeProfile
	ValidationError = collections.ValidationError
	LoadError       = collections.LoadError
	ValidateReport  = contentcmd.Report
)

// Option customises the module wiring.
type Option = di.Option

// WithLoggerProvider routes module logs through provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithContentFS reads content from fsys instead of Config.Root.
func WithContentFS(fsys fs.FS) Option {
	return di.WithContentFS(fsys)
}

// WithProject supplies the project configuration directly.
func WithProject(project Project) Option {
	return di.WithProject(project)
}

// WithEnvLookup replaces the process environment for project settings.
func WithEnvLookup(lookup func(key string) (string, bool)) Option {
	return di.WithEnvLookup(projectconfig.LookupFunc(lookup))
}

// IssueLines flattens a load or validation error into "path: field: message" lines.
func IssueLines(err error) []string {
	return collections.IssueLines(err)
}

// RenderMarkdown converts short authored text such as section copy into
// HTML. Every newline in raw becomes a <br>.
func RenderMarkdown(raw string) string {
	return markdown.Render(raw)
}

// Module is the top level façade over content loading and validation.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Project returns a copy of the project configuration.
func (m *Module) Project() Project {
	return m.container.Project()
}

// Collections returns the collection loader.
func (m *Module) Collections() *collections.Service {
	return m.container.CollectionService()
}

// RenderBody converts a Markdown body into HTML with the module's parser
// settings.
func (m *Module) RenderBody(ctx context.Context, body []byte) ([]byte, error) {
	return m.container.MarkdownService().Render(ctx, body, interfaces.ParseOptions{})
}

// Validate loads the named collections, or every enabled one when names is
// empty, and reports all problems. The report is returned also when the
// error says content is invalid.
func (m *Module) Validate(ctx context.Context, names ...string) (*ValidateReport, error) {
	var report *ValidateReport
	err := m.container.ValidateContentHandler().Execute(ctx, contentcmd.ValidateContentCommand{
		Collections:    names,
		ResultCallback: func(r *contentcmd.Report) { report = r },
	})
	return report, err
}

// Site is a loaded snapshot of every collection.
type Site struct {
	Project  Project
	Pages    *Collection
	Legal    *Collection
	Settings *Collection
	Linktree *Collection
	// Posts is nil when the blog module is disabled.
	Posts *Collection
}

// Load reads every enabled collection. Entries that fail validation are
// left out and reported in the returned error, which unwraps to the
// *LoadError of each affected collection; the Site is usable either way.
// Other errors abort the load and return a nil Site.
func (m *Module) Load(ctx context.Context) (*Site, error) {
	svc := m.container.CollectionService()
	site := &Site{Project: m.container.Project()}

	targets := []struct {
		name collections.Name
		dst  **Collection
	}{
		{collections.CollectionPages, &site.Pages},
		{collections.CollectionLegal, &site.Legal},
		{collections.CollectionSettings, &site.Settings},
		{collections.CollectionLinktree, &site.Linktree},
	}
	if site.Project.Modules.Blog.Enabled {
		targets = append(targets, struct {
			name collections.Name
			dst  **Collection
		}{collections.CollectionBlogPosts, &site.Posts})
	}

	var failures []error
	for _, target := range targets {
		collection, err := svc.Load(ctx, target.name)
		if err != nil {
			var loadErr *collections.LoadError
			if !errors.As(err, &loadErr) {
				return nil, err
			}
			failures = append(failures, err)
		}
		*target.dst = collection
	}
	return site, errors.Join(failures...)
}

// Homepage returns the page flagged as homepage. The first one in file
// order wins when several are flagged.
func (s *Site) Homepage() (*Entry, bool) {
	if s == nil || s.Pages == nil {
		return nil, false
	}
	for _, entry := range s.Pages.Entries {
		if page, ok := entry.Data.(*Page); ok && page.IsHomepage {
			return entry, true
		}
	}
	return nil, false
}

// PageBySlug finds a page by its id or its slug field.
func (s *Site) PageBySlug(slug string) (*Entry, bool) {
	if s == nil || s.Pages == nil {
		return nil, false
	}
	if entry, ok := s.Pages.Get(slug); ok {
		return entry, true
	}
	for _, entry := range s.Pages.Entries {
		if page, ok := entry.Data.(*Page); ok && page.Slug == slug {
			return entry, true
		}
	}
	return nil, false
}

// SiteSettings returns the first settings document.
func (s *Site) SiteSettings() (*Settings, bool) {
	if s == nil || s.Settings.Len() == 0 {
		return nil, false
	}
	settings, ok := s.Settings.Entries[0].Data.(*Settings)
	return settings, ok
}

// RecentPosts returns blog posts newest first. Posts published at the same
// instant keep their file order.
func (s *Site) RecentPosts() []*Entry {
	if s == nil || s.Posts.Len() == 0 {
		return nil
	}
	posts := append([]*Entry(nil), s.Posts.Entries...)
	sort.SliceStable(posts, func(i, j int) bool {
		return pubDate(posts[i]).After(pubDate(posts[j]))
	})
	return posts
}

func pubDate(entry *Entry) time.Time {
	if post, ok := entry.Data.(*BlogPost); ok {
		return post.PubDate
	}
	return time.Time{}
}
