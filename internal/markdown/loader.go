package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-site/pkg/interfaces"
)

// LoaderConfig configures how files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the directory the filesystem is rooted at. It is only used
	// to turn absolute paths into filesystem-relative ones.
	BasePath string
	// Pattern limits discovered files (defaults to "*.md"). Brace
	// alternatives ("*.{md,mdx}") and a leading "**/" are supported.
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into source files and Markdown documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// SourceFile is a raw file read by the Loader.
type SourceFile struct {
	// Path is slash separated and relative to the loader filesystem.
	Path     string
	Data     []byte
	ModTime  time.Time
	Checksum []byte
}

// LoadParams provide call-specific overrides for discovery.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// ReadFile reads a single file and computes its checksum.
func (l *Loader) ReadFile(ctx context.Context, name string) (*SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("loader stat %s: %w", rel, err)
	}

	sum := sha256.Sum256(data)
	return &SourceFile{
		Path:     rel,
		Data:     data,
		ModTime:  info.ModTime(),
		Checksum: sum[:],
	}, nil
}

// LoadFile reads and splits a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	src, err := l.ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	doc, err := BuildDocument(src.Path, src.Data, src.ModTime)
	if err != nil {
		return nil, err
	}
	doc.Checksum = src.Checksum
	return doc, nil
}

// Discover lists the files under dir that match the configured pattern,
// sorted by path. A missing dir yields no files and no error.
func (l *Loader) Discover(ctx context.Context, dir string, opts LoadParams) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	if _, err := fs.Stat(l.fs, root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("loader stat %s: %w", root, err)
	}

	pattern := opts.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	patterns, recursiveHint := compilePatterns(pattern)

	recursive := l.recursive || recursiveHint
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}

	var files []string
	walkErr := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if matchesAny(patterns, relativeTo(root, p)) {
			files = append(files, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

func (l *Loader) makeRelative(p string) (string, error) {
	clean := filepath.Clean(p)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" || l.basePath == "." {
		return "", fmt.Errorf("loader: absolute path %s provided without base path", p)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("loader: make relative %s: %w", p, err)
	}
	return rel, nil
}

type filePattern struct {
	glob     string
	fullPath bool
}

// compilePatterns expands brace alternatives and strips "**/" segments. The
// second result reports whether any alternative asked for recursion.
func compilePatterns(pattern string) ([]filePattern, bool) {
	recursive := false
	var out []filePattern
	for _, alt := range expandBraces(filepath.ToSlash(strings.TrimSpace(pattern))) {
		if strings.Contains(alt, "**/") {
			recursive = true
			alt = strings.ReplaceAll(alt, "**/", "")
		}
		out = append(out, filePattern{glob: alt, fullPath: strings.Contains(alt, "/")})
	}
	return out, recursive
}

func expandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}
	closing := strings.IndexByte(pattern[open:], '}')
	if closing < 0 {
		return []string{pattern}
	}
	closing += open

	prefix, suffix := pattern[:open], pattern[closing+1:]
	var out []string
	for _, option := range strings.Split(pattern[open+1:closing], ",") {
		out = append(out, expandBraces(prefix+option+suffix)...)
	}
	return out
}

func matchesAny(patterns []filePattern, rel string) bool {
	for _, pattern := range patterns {
		target := path.Base(rel)
		if pattern.fullPath {
			target = rel
		}
		if ok, err := path.Match(pattern.glob, target); err == nil && ok {
			return true
		}
	}
	return false
}

func relativeTo(root, p string) string {
	if root == "." || root == "" {
		return p
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
}
