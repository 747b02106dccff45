package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrContentRootRequired = errors.New("site config: content root is required")
var ErrCollectionNameRequired = errors.New("site config: collection override requires a name")
var ErrCollectionDuplicate = errors.New("site config: collection configured more than once")
var ErrCollectionBaseRequired = errors.New("site config: collection base directory is required")
var ErrWordsPerMinuteInvalid = errors.New("site config: words per minute must be zero or positive")
var ErrLoggingProviderRequired = errors.New("site config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("site config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("site config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("site config: logging format is invalid")

// Config aggregates the runtime knobs of the site content module. Zero values
// are filled in by DefaultConfig; LoadFile overlays a YAML file on top.
type Config struct {
	Root        string             `yaml:"root"`
	Collections []CollectionConfig `yaml:"collections,omitempty"`
	Markdown    MarkdownConfig     `yaml:"markdown"`
	Assets      AssetsConfig       `yaml:"assets"`
	Project     ProjectConfig      `yaml:"project"`
	Features    Features           `yaml:"features"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// CollectionConfig overrides where a collection's files are discovered.
// An empty Pattern keeps the default pattern of the collection.
type CollectionConfig struct {
	Name    string `yaml:"name"`
	Base    string `yaml:"base"`
	Pattern string `yaml:"pattern,omitempty"`
}

// MarkdownConfig captures parser and annotation behaviour for Markdown entries.
type MarkdownConfig struct {
	Parser         MarkdownParserConfig `yaml:"parser"`
	WordsPerMinute int                  `yaml:"words_per_minute"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// AssetsConfig toggles image reference checks against the content root.
type AssetsConfig struct {
	CheckImages bool `yaml:"check_images"`
}

// ProjectConfig lists the .env files consulted for project settings, in
// priority order.
type ProjectConfig struct {
	EnvFiles []string `yaml:"env_files,omitempty"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `yaml:"logger"`
	// Blog loads blog posts even when the project's blog module is disabled.
	Blog bool `yaml:"blog"`
}

// LoggingConfig selects the logging provider and its options.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus,omitempty"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Root: ".",
		Markdown: MarkdownConfig{
			WordsPerMinute: 200,
		},
		Assets: AssetsConfig{
			CheckImages: true,
		},
		Project: ProjectConfig{
			EnvFiles: []string{".env"},
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// LoadFile reads a YAML configuration file on top of DefaultConfig and
// validates the result.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("site config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("site config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Root) == "" {
		return ErrContentRootRequired
	}
	seen := make(map[string]struct{}, len(cfg.Collections))
	for _, collection := range cfg.Collections {
		name := strings.TrimSpace(collection.Name)
		if name == "" {
			return ErrCollectionNameRequired
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s", ErrCollectionDuplicate, name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(collection.Base) == "" {
			return fmt.Errorf("%w: %s", ErrCollectionBaseRequired, name)
		}
	}
	if cfg.Markdown.WordsPerMinute < 0 {
		return ErrWordsPerMinuteInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
