package collections

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-site/internal/identity"
	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/internal/validation"
	"github.com/goliatone/go-site/pkg/interfaces"
)

type warnRecorder struct {
	warnings []string
}

func (w *warnRecorder) Trace(string, ...any) {}
func (w *warnRecorder) Debug(string, ...any) {}
func (w *warnRecorder) Info(string, ...any)  {}
func (w *warnRecorder) Error(string, ...any) {}
func (w *warnRecorder) Fatal(string, ...any) {}

func (w *warnRecorder) Warn(msg string, _ ...any) {
	w.warnings = append(w.warnings, msg)
}

func (w *warnRecorder) WithContext(context.Context) interfaces.Logger {
	return w
}

func (w *warnRecorder) WithFields(map[string]any) interfaces.Logger {
	return w
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	fsys := os.DirFS("testdata/site")
	registry := newTestRegistry(t, WithAssetFS(fsys))
	md := markdown.NewServiceFS(fsys, markdown.Config{}, nil)
	return NewService(registry, md, opts...)
}

func TestServiceLoadsBlogPosts(t *testing.T) {
	svc := newTestService(t)

	collection, err := svc.Load(context.Background(), CollectionBlogPosts)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError for the broken post, got %v", err)
	}
	if len(loadErr.Failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(loadErr.Failures))
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected validation failure to be reachable via errors.Is")
	}
	broken := loadErr.ValidationErrors()[0]
	if !strings.HasSuffix(broken.FilePath, "kaputt.md") || len(broken.Issues) != 2 {
		t.Fatalf("expected pubDate and cover issues for kaputt.md, got %#v", broken)
	}

	if collection.Len() != 2 {
		t.Fatalf("expected two valid posts, got %d", collection.Len())
	}
	if collection.Entries[0].ID != "2024/ueberfuehrung" || collection.Entries[1].ID != "kennzeichen" {
		t.Fatalf("unexpected ids %q %q", collection.Entries[0].ID, collection.Entries[1].ID)
	}

	entry, ok := collection.Get("kennzeichen")
	if !ok {
		t.Fatalf("expected kennzeichen entry")
	}
	post := entry.Data.(*BlogPost)
	if post.Author.Name != "Anon" || post.LastMaintained != nil {
		t.Fatalf("expected preprocessed post, got %#v", post)
	}
	if post.Cover == nil || post.Cover.Resolved != "modules/blog/content/blogposts/cover.jpg" {
		t.Fatalf("expected resolved cover, got %#v", post.Cover)
	}
	if entry.MinutesRead() != "1 min read" {
		t.Fatalf("expected reading time annotation, got %q", entry.MinutesRead())
	}
	if !strings.Contains(string(entry.HTML()), "<strong>Wunschkennzeichen</strong>") {
		t.Fatalf("expected rendered body, got %q", entry.HTML())
	}
	if entry.UUID != identity.EntryUUID("blogposts", "kennzeichen") {
		t.Fatalf("expected deterministic uuid")
	}

	transfer, _ := collection.Get("2024/ueberfuehrung")
	if transfer.Data.(*BlogPost).Cover != nil || transfer.Data.(*BlogPost).Author.Name != "Hans Meier" {
		t.Fatalf("unexpected transfer post %#v", transfer.Data)
	}
}

func TestServiceLoadsPagesAndDropsInvalid(t *testing.T) {
	warnings := &warnRecorder{}
	svc := newTestService(t, WithLogger(warnings))

	collection, err := svc.Load(context.Background(), CollectionPages)
	if err == nil {
		t.Fatalf("expected karussell.json to fail")
	}
	lines := IssueLines(err)
	if len(lines) != 1 || lines[0] != `src/content/pages/karussell.json: /sections/1/type: unknown section type "carousel"` {
		t.Fatalf("unexpected issue lines %v", lines)
	}

	if collection.Len() != 2 {
		t.Fatalf("expected two valid pages, got %d", collection.Len())
	}
	home, ok := collection.Get("home")
	if !ok || !home.Data.(*Page).IsHomepage {
		t.Fatalf("expected homepage entry, got %#v", home)
	}
	if home.Rendered != nil || home.MinutesRead() != "" {
		t.Fatalf("expected JSON entries to carry no rendered markdown")
	}

	leistungen, _ := collection.Get("leistungen")
	if got := leistungen.Data.(*Page).DuplicateSectionIDs(); len(got) != 1 || got[0] != "kontakt" {
		t.Fatalf("expected duplicate kontakt section id, got %v", got)
	}
	if len(warnings.warnings) != 1 || warnings.warnings[0] != "collections.entry.rejected" {
		t.Fatalf("expected a rejection warning, got %v", warnings.warnings)
	}
}

func TestServiceLoadsRemainingCollections(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	legal, err := svc.Load(ctx, CollectionLegal)
	if err != nil {
		t.Fatalf("Load legal: %v", err)
	}
	impressum, ok := legal.Get("impressum")
	if !ok || impressum.Data.(*LegalPage).Title != "Impressum" {
		t.Fatalf("expected impressum, got %#v", legal.Entries)
	}

	settings, err := svc.Load(ctx, CollectionSettings)
	if err != nil || settings.Len() != 1 {
		t.Fatalf("expected one settings entry, got %d (%v)", settings.Len(), err)
	}
	if settings.Entries[0].Data.(*Settings).SocialLinks[0].Icon != "instagram" {
		t.Fatalf("unexpected settings %#v", settings.Entries[0].Data)
	}

	linktree, err := svc.Load(ctx, CollectionLinktree)
	if err != nil || linktree.Len() != 1 {
		t.Fatalf("expected one linktree entry, got %d (%v)", linktree.Len(), err)
	}
}

func TestServiceDuplicateIDsLaterEntryWins(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/a-kontakt.json": {Data: []byte(`{"title":"Alt","slug":"kontakt","sections":[]}`)},
		"pages/b-kontakt.json": {Data: []byte(`{"title":"Neu","slug":"kontakt","sections":[]}`)},
		"pages/start.json":     {Data: []byte(`{"title":"Start","slug":"start","sections":[]}`)},
	}
	warnings := &warnRecorder{}
	svc := NewService(
		newTestRegistry(t),
		markdown.NewServiceFS(fsys, markdown.Config{}, nil),
		WithLogger(warnings),
		WithDefinitions(Definition{Name: CollectionPages, Base: "pages", Pattern: "*.json"}),
	)

	collection, err := svc.Load(context.Background(), CollectionPages)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if collection.Len() != 2 {
		t.Fatalf("expected duplicate to be collapsed, got %d entries", collection.Len())
	}
	entry, _ := collection.Get("kontakt")
	if entry.Data.(*Page).Title != "Neu" || collection.Entries[0] != entry {
		t.Fatalf("expected later entry to win, got %#v", entry.Data)
	}
	if len(warnings.warnings) != 1 || warnings.warnings[0] != "collections.entry.duplicate_id" {
		t.Fatalf("expected duplicate id warning, got %v", warnings.warnings)
	}
}

func TestServiceMissingDirectoryIsEmpty(t *testing.T) {
	svc := newTestService(t, WithDefinitions(Definition{Name: CollectionPages, Base: "does/not/exist", Pattern: "**/*.json"}))

	collection, err := svc.Load(context.Background(), CollectionPages)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if collection.Len() != 0 {
		t.Fatalf("expected empty collection")
	}
}

func TestServiceUnknownCollection(t *testing.T) {
	svc := newTestService(t, WithDefinitions())
	if _, err := svc.Load(context.Background(), CollectionPages); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestServiceHonoursCancelledContext(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Load(ctx, CollectionPages); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEntryID(t *testing.T) {
	cases := []struct {
		name string
		base string
		path string
		data map[string]any
		want string
	}{
		{name: "slug field", base: "src/content/pages", path: "src/content/pages/home.json", data: map[string]any{"slug": "startseite"}, want: "startseite"},
		{name: "path fallback", base: "src/content/legal", path: "src/content/legal/impressum.md", data: map[string]any{}, want: "impressum"},
		{name: "nested path", base: "modules/blog/content/blogposts", path: "modules/blog/content/blogposts/2024/post.mdx", data: nil, want: "2024/post"},
		{name: "blank slug", base: "pages", path: "pages/kontakt.json", data: map[string]any{"slug": " / "}, want: "kontakt"},
		{name: "no base", base: "", path: "about.json", data: nil, want: "about"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EntryID(tc.base, tc.path, tc.data); got != tc.want {
				t.Fatalf("EntryID = %q, want %q", got, tc.want)
			}
		})
	}
}
