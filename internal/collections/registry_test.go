package collections

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-site/internal/sections"
	"github.com/goliatone/go-site/internal/validation"
)

func newTestRegistry(t *testing.T, opts ...RegistryOption) *Registry {
	t.Helper()
	registry, err := NewRegistry(opts...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func blogRecord(data map[string]any) Record {
	base := map[string]any{
		"title":       "Kennzeichen reservieren",
		"description": "So geht es.",
		"pubDate":     "2024-03-01",
		"categories":  []any{"zulassung"},
	}
	for key, value := range data {
		base[key] = value
	}
	return Record{ID: "kennzeichen", Collection: CollectionBlogPosts, FilePath: "blog/kennzeichen.md", Data: base}
}

func pageRecord(sectionList ...any) Record {
	return Record{
		ID:         "home",
		Collection: CollectionPages,
		FilePath:   "pages/home.json",
		Data: map[string]any{
			"title":    "Startseite",
			"slug":     "home",
			"sections": sectionList,
		},
	}
}

func TestBlogPostBlankLastMaintainedIsAbsent(t *testing.T) {
	registry := newTestRegistry(t)

	post, err := registry.ValidateBlogPost(blogRecord(map[string]any{"lastMaintained": ""}))
	if err != nil {
		t.Fatalf("ValidateBlogPost: %v", err)
	}
	if post.LastMaintained != nil {
		t.Fatalf("expected lastMaintained to be absent, got %v", post.LastMaintained)
	}
}

func TestBlogPostNullLastMaintainedIsAbsent(t *testing.T) {
	registry := newTestRegistry(t)

	post, err := registry.ValidateBlogPost(blogRecord(map[string]any{"lastMaintained": nil}))
	if err != nil {
		t.Fatalf("ValidateBlogPost: %v", err)
	}
	if post.LastMaintained != nil {
		t.Fatalf("expected lastMaintained to be absent, got %v", post.LastMaintained)
	}
}

func TestBlogPostAuthorDefaults(t *testing.T) {
	registry := newTestRegistry(t)

	for name, record := range map[string]Record{
		"absent": blogRecord(nil),
		"null":   blogRecord(map[string]any{"author": nil}),
	} {
		post, err := registry.ValidateBlogPost(record)
		if err != nil {
			t.Fatalf("%s: ValidateBlogPost: %v", name, err)
		}
		if post.Author.Name != "Anon" || post.Author.Img != nil {
			t.Fatalf("%s: expected Anon author, got %#v", name, post.Author)
		}
		if post.CoverAlt != "Blog Post Cover Image" {
			t.Fatalf("%s: expected coverAlt default, got %q", name, post.CoverAlt)
		}
	}

	post, err := registry.ValidateBlogPost(blogRecord(map[string]any{
		"author": map[any]any{"name": "Hans Meier"},
	}))
	if err != nil {
		t.Fatalf("ValidateBlogPost: %v", err)
	}
	if post.Author.Name != "Hans Meier" {
		t.Fatalf("expected authored name, got %q", post.Author.Name)
	}
}

func TestBlogPostBlankCoverIsAbsent(t *testing.T) {
	registry := newTestRegistry(t)

	post, err := registry.ValidateBlogPost(blogRecord(map[string]any{"cover": ""}))
	if err != nil {
		t.Fatalf("ValidateBlogPost: %v", err)
	}
	if post.Cover != nil {
		t.Fatalf("expected cover to be absent, got %#v", post.Cover)
	}
}

func TestBlogPostDateCoercion(t *testing.T) {
	registry := newTestRegistry(t)

	cases := []struct {
		name  string
		value any
		want  time.Time
	}{
		{name: "date", value: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date time", value: "2024-03-01 09:30:00", want: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{name: "rfc3339 offset", value: "2024-03-01T10:00:00+02:00", want: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{name: "unpadded date", value: "2024-3-1", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date time with spaced offset", value: "2024-03-01 10:00:00 +02:00", want: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{name: "epoch millis", value: float64(1709251200000), want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "time value", value: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post, err := registry.ValidateBlogPost(blogRecord(map[string]any{"pubDate": tc.value, "lastMaintained": tc.value}))
			if err != nil {
				t.Fatalf("ValidateBlogPost: %v", err)
			}
			if !post.PubDate.Equal(tc.want) {
				t.Fatalf("expected pubDate %v, got %v", tc.want, post.PubDate)
			}
			if post.LastMaintained == nil || !post.LastMaintained.Equal(tc.want) {
				t.Fatalf("expected lastMaintained %v, got %v", tc.want, post.LastMaintained)
			}
		})
	}
}

func TestBlogPostInvalidDate(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.ValidateBlogPost(blogRecord(map[string]any{"pubDate": "gestern"}))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Issues) != 1 || validationErr.Issues[0].Location != "/pubDate" {
		t.Fatalf("expected a single pubDate issue, got %#v", validationErr.Issues)
	}

	issues := validation.Issues(err)
	if len(issues) != 1 || issues[0].Location != "/pubDate" {
		t.Fatalf("expected issues to be reachable through the error chain, got %#v", issues)
	}

	_, err = registry.ValidateBlogPost(blogRecord(map[string]any{"pubDate": true}))
	if issues := validation.Issues(err); len(issues) != 1 || issues[0].Location != "/pubDate" {
		t.Fatalf("expected type issue for boolean date, got %#v", issues)
	}
}

func TestValidationErrorCollectsAllIssues(t *testing.T) {
	registry := newTestRegistry(t)

	record := blogRecord(map[string]any{"pubDate": "bald", "categories": "zulassung"})
	delete(record.Data, "title")

	_, err := registry.Validate(CollectionBlogPosts, record)
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if validationErr.FilePath != "blog/kennzeichen.md" || validationErr.Collection != CollectionBlogPosts {
		t.Fatalf("expected file context on error, got %#v", validationErr)
	}
	if len(validationErr.Issues) != 3 {
		t.Fatalf("expected three issues, got %#v", validationErr.Issues)
	}

	lines := validationErr.Lines()
	if !strings.HasPrefix(lines[0], "blog/kennzeichen.md: ") {
		t.Fatalf("expected path prefixed lines, got %v", lines)
	}
}

func TestBlogPostImages(t *testing.T) {
	assets := fstest.MapFS{
		"blog/cover.jpg":        {Data: []byte("jpg")},
		"blog/authors/hans.png": {Data: []byte("png")},
	}
	registry := newTestRegistry(t, WithAssetFS(assets))

	post, err := registry.ValidateBlogPost(blogRecord(map[string]any{
		"cover":  "./cover.jpg",
		"author": map[string]any{"name": "Hans", "img": "authors/hans.png"},
	}))
	if err != nil {
		t.Fatalf("ValidateBlogPost: %v", err)
	}
	if post.Cover == nil || post.Cover.Src != "./cover.jpg" || post.Cover.Resolved != "blog/cover.jpg" {
		t.Fatalf("unexpected cover %#v", post.Cover)
	}
	if post.Author.Img == nil || post.Author.Img.Resolved != "blog/authors/hans.png" {
		t.Fatalf("unexpected author image %#v", post.Author.Img)
	}

	for _, src := range []string{"https://cdn.example.com/a.jpg", "/images/cover.jpg"} {
		post, err := registry.ValidateBlogPost(blogRecord(map[string]any{"cover": src}))
		if err != nil {
			t.Fatalf("%s: ValidateBlogPost: %v", src, err)
		}
		if post.Cover.Resolved != "" {
			t.Fatalf("%s: expected unresolved reference, got %q", src, post.Cover.Resolved)
		}
	}

	for _, src := range []string{"missing.jpg", "../../../etc/passwd"} {
		_, err := registry.ValidateBlogPost(blogRecord(map[string]any{"cover": src}))
		issues := validation.Issues(err)
		if len(issues) != 1 || issues[0].Location != "/cover" {
			t.Fatalf("%s: expected cover issue, got %#v", src, issues)
		}
	}
}

func TestPageValidatesAllSectionTypes(t *testing.T) {
	registry := newTestRegistry(t)

	page, err := registry.ValidatePage(pageRecord(
		map[string]any{"type": "hero", "heading": "KFZ-Zulassung", "text": "Schnell"},
		map[string]any{"type": "benefits", "items": []any{}},
		map[string]any{"type": "servicesSlider", "items": []any{map[string]any{"title": "Zulassung", "text": "Neu"}}},
		map[string]any{"type": "textImage", "heading": "Team", "text": "Wir", "media": "/team.jpg"},
		map[string]any{"type": "accordionGroups", "groups": []any{}},
		map[string]any{"type": "contactForm"},
		map[string]any{"type": "video", "heading": "Film", "video": "/film.mp4"},
		map[string]any{"type": "downloads", "items": []any{map[string]any{"title": "Vollmacht", "file": "/v.pdf"}}},
	))
	if err != nil {
		t.Fatalf("ValidatePage: %v", err)
	}

	if page.IsHomepage {
		t.Fatalf("expected isHomepage to default to false")
	}
	if len(page.Sections) != 8 {
		t.Fatalf("expected 8 sections, got %d", len(page.Sections))
	}
	for i, want := range sections.Types() {
		if got := page.Sections[i].SectionType(); got != want {
			t.Fatalf("section %d: expected %s, got %s", i, want, got)
		}
	}

	benefits := page.Sections[1].(*sections.Benefits)
	if benefits.Heading != "Vorteile" || len(benefits.Items) != 0 {
		t.Fatalf("unexpected benefits %#v", benefits)
	}
	textImage := page.Sections[3].(*sections.TextImage)
	if textImage.MediaAlt != "" || textImage.MediaPosition != sections.MediaRight {
		t.Fatalf("unexpected textImage defaults %#v", textImage)
	}
	if page.Sections[5].(*sections.ContactForm).Heading != "Kontakt" {
		t.Fatalf("expected contactForm heading default")
	}
}

func TestPageWithUnknownSectionFails(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.ValidatePage(pageRecord(
		map[string]any{"type": "hero", "heading": "Hallo", "text": "Welt"},
		map[string]any{"type": "carousel"},
	))
	if err == nil {
		t.Fatalf("expected page with unknown section type to fail")
	}
	issues := validation.Issues(err)
	if len(issues) != 1 || issues[0].Location != "/sections/1/type" {
		t.Fatalf("expected issue at /sections/1/type, got %#v", issues)
	}
}

func TestPageWithIncompleteSectionFails(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.ValidatePage(pageRecord(
		map[string]any{"type": "hero", "heading": "Hallo"},
		map[string]any{"type": "textImage", "heading": "x", "text": "y", "media": "z", "mediaPosition": "center"},
	))
	issues := validation.Issues(err)
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %#v", issues)
	}
	if issues[0].Location != "/sections/0" || !strings.Contains(issues[0].Message, "text") {
		t.Fatalf("expected missing text issue on first section, got %#v", issues[0])
	}
	if issues[1].Location != "/sections/1/mediaPosition" {
		t.Fatalf("expected mediaPosition issue, got %#v", issues[1])
	}
}

func TestPageSEOAndDuplicateSectionIDs(t *testing.T) {
	registry := newTestRegistry(t)

	record := pageRecord(
		map[string]any{"type": "contactForm", "id": "kontakt"},
		map[string]any{"type": "video", "id": "kontakt", "heading": "Film", "video": "/f.mp4"},
	)
	record.Data["seo"] = map[string]any{"metaTitle": "Start"}
	record.Data["isHomepage"] = true

	page, err := registry.ValidatePage(record)
	if err != nil {
		t.Fatalf("duplicate section ids must not fail validation: %v", err)
	}
	if page.SEO == nil || page.SEO.MetaTitle != "Start" || !page.IsHomepage {
		t.Fatalf("unexpected page %#v", page)
	}
	if got := page.DuplicateSectionIDs(); !reflect.DeepEqual(got, []string{"kontakt"}) {
		t.Fatalf("expected duplicate kontakt id, got %v", got)
	}
}

func TestRevalidationIsIdempotent(t *testing.T) {
	registry := newTestRegistry(t)

	records := []struct {
		name   Name
		record Record
	}{
		{name: CollectionPages, record: pageRecord(
			map[string]any{"type": "hero", "id": "top", "heading": "Hallo", "text": "Welt", "ctaText": ""},
			map[string]any{"type": "textImage", "heading": "x", "text": "y", "media": "z", "attribution": map[string]any{}},
			map[string]any{"type": "accordionGroups", "groups": []any{map[string]any{"title": "FAQ", "accordions": []any{}}}},
		)},
		{name: CollectionBlogPosts, record: blogRecord(map[string]any{"lastMaintained": 1709251200000.0, "cover": "cover.jpg"})},
		{name: CollectionSettings, record: Record{FilePath: "settings/site.json", Data: map[string]any{"socialLinks": []any{}}}},
		{name: CollectionLinktree, record: Record{FilePath: "linktree/hm.json", Data: map[string]any{"ownerName": "HM", "ownerTitle": "KFZ", "links": []any{}}}},
		{name: CollectionLegal, record: Record{FilePath: "legal/impressum.md", Data: map[string]any{"title": "Impressum", "slug": "impressum"}}},
	}

	for _, tc := range records {
		t.Run(string(tc.name), func(t *testing.T) {
			first, err := registry.Validate(tc.name, tc.record)
			if err != nil {
				t.Fatalf("first pass: %v", err)
			}

			encoded, err := json.Marshal(first)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var data map[string]any
			if err := json.Unmarshal(encoded, &data); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			second, err := registry.Validate(tc.name, Record{FilePath: tc.record.FilePath, Data: data})
			if err != nil {
				t.Fatalf("second pass: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("expected identical documents\nfirst  %#v\nsecond %#v", first, second)
			}
		})
	}
}

func TestSettingsAndLinktree(t *testing.T) {
	registry := newTestRegistry(t)

	settings, err := registry.ValidateSettings(Record{Data: map[string]any{}})
	if err != nil {
		t.Fatalf("empty settings must validate: %v", err)
	}
	if settings.Logo != "" || settings.SocialLinks != nil {
		t.Fatalf("unexpected settings %#v", settings)
	}

	_, err = registry.ValidateSettings(Record{Data: map[string]any{
		"socialLinks": []any{map[string]any{"name": "Instagram", "url": "https://instagram.com"}},
	}})
	if issues := validation.Issues(err); len(issues) != 1 || issues[0].Location != "/socialLinks/0" {
		t.Fatalf("expected missing icon issue, got %#v", issues)
	}

	profile, err := registry.ValidateLinktree(Record{Data: map[string]any{
		"ownerName":  "HM",
		"ownerTitle": "Zulassungsdienst",
		"links":      []any{map[string]any{"title": "Website", "url": "https://group-hm.de"}},
	}})
	if err != nil {
		t.Fatalf("ValidateLinktree: %v", err)
	}
	if len(profile.Links) != 1 || profile.Links[0].URL != "https://group-hm.de" {
		t.Fatalf("unexpected profile %#v", profile)
	}

	if _, err := registry.ValidateLinktree(Record{Data: map[string]any{"ownerName": "HM"}}); err == nil {
		t.Fatalf("expected linktree without links to fail")
	}
}

func TestLegalPageRequiresSlug(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.ValidateLegalPage(Record{Data: map[string]any{"title": "Impressum", "minutesRead": "1 min read"}})
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected missing slug to fail, got %v", err)
	}
}

func TestValidateUnknownCollection(t *testing.T) {
	registry := newTestRegistry(t)

	if _, err := registry.Validate("events", Record{}); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestPreprocessRulesAreListed(t *testing.T) {
	rules := PreprocessRules(CollectionBlogPosts)
	if len(rules) != 4 {
		t.Fatalf("expected four blog rules, got %d", len(rules))
	}
	fields := []string{rules[0].Field, rules[1].Field, rules[2].Field, rules[3].Field}
	if !reflect.DeepEqual(fields, []string{"lastMaintained", "lastMaintained", "author", "cover"}) {
		t.Fatalf("unexpected rule order %v", fields)
	}
	if len(PreprocessRules(CollectionPages)) != 0 {
		t.Fatalf("expected no page rules")
	}
}
