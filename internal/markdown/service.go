package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Config controls how the Markdown service discovers, parses and annotates files.
type Config struct {
	BasePath       string
	Pattern        string
	Recursive      bool
	Parser         interfaces.ParseOptions
	WordsPerMinute int
	// Logger receives render diagnostics. Nil disables logging.
	Logger interfaces.Logger
}

// Service loads Markdown documents from a filesystem and renders them,
// annotating each front-matter with its reading time.
type Service struct {
	cfg    Config
	parser *GoldmarkParser
	loader *Loader
	logger interfaces.Logger
}

// NewService constructs a service rooted at cfg.BasePath on disk. When parser
// is nil a GoldmarkParser with reading time enabled is created.
func NewService(cfg Config, parser *GoldmarkParser) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewServiceFS(filesystem, cfg, parser), nil
}

// NewServiceFS constructs a service over an arbitrary filesystem.
func NewServiceFS(filesystem fs.FS, cfg Config, parser *GoldmarkParser) *Service {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser, WithReadingTime(cfg.WordsPerMinute))
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: loader,
		logger: logger,
	}
}

// Loader exposes the underlying file loader so non-Markdown collections can
// share discovery and reads.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Load reads a single Markdown document and renders it.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.ParseOptions) (*interfaces.Document, error) {
	doc, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, doc, opts); err != nil {
		return nil, err
	}
	return doc, nil
}

// Render converts Markdown bytes into HTML without annotation.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument parses the document body, writes minutesRead into its
// front-matter and stores the rendered HTML on the document.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := s.parser.ConvertDocument(doc.Body, doc.FrontMatter, mergeParseOptions(s.cfg.Parser, opts))
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	logging.WithEntryContext(s.logger, "", doc.FilePath, "").Debug(
		"markdown.document.rendered",
		"bytes", len(html),
		"minutes_read", doc.FrontMatter[MinutesReadKey],
	)
	return html, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
