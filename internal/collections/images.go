package collections

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

var ErrImageNotFound = errors.New("image not found")

var imageFields = map[Name][][]string{
	CollectionBlogPosts: {
		{"cover"},
		{"author", "img"},
	},
}

func isRemoteImage(src string) bool {
	lower := strings.ToLower(strings.TrimSpace(src))
	for _, prefix := range []string{"http://", "https://", "//", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// ResolveImage resolves src relative to the directory of entryPath. Remote
// and root-absolute references are returned unresolved. When assets is set,
// a relative reference must name an existing file.
func ResolveImage(assets fs.FS, entryPath, src string) (string, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return "", fmt.Errorf("image reference is empty")
	}
	if isRemoteImage(trimmed) || strings.HasPrefix(trimmed, "/") {
		return "", nil
	}

	resolved := path.Clean(path.Join(path.Dir(entryPath), trimmed))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", fmt.Errorf("image %q escapes the content root", src)
	}
	if assets == nil {
		return resolved, nil
	}
	info, err := fs.Stat(assets, resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrImageNotFound, resolved)
		}
		return "", fmt.Errorf("image %s: %w", resolved, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("image %s is a directory", resolved)
	}
	return resolved, nil
}

// lookup walks data along the given object keys.
func lookup(data map[string]any, keys []string) (any, bool) {
	var current any = data
	for _, key := range keys {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
