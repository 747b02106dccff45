package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-site"
	"github.com/goliatone/go-site/internal/commands"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Options captures configuration for CLI bootstraps. Zero values keep what
// the configuration file (or the defaults) say.
type Options struct {
	ConfigPath     string
	Root           string
	Verbose        bool
	LogFormat      string
	Blog           bool
	NoImageCheck   bool
	LoggerProvider interfaces.LoggerProvider
	EnvLookup      func(key string) (string, bool)
}

// Module wraps the site module, the effective configuration and a CLI logger.
type Module struct {
	Module *site.Module
	Config site.Config
	Logger interfaces.Logger
}

// LoadConfig resolves the effective configuration for opts.
func LoadConfig(opts Options) (site.Config, error) {
	cfg := site.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := site.LoadConfig(path)
		if err != nil {
			return site.Config{}, err
		}
		cfg = loaded
	}

	if root := strings.TrimSpace(opts.Root); root != "" {
		cfg.Root = root
	}
	if opts.Blog {
		cfg.Features.Blog = true
	}
	if opts.NoImageCheck {
		cfg.Assets.CheckImages = false
	}

	cfg.Features.Logger = true
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	} else if strings.TrimSpace(opts.ConfigPath) == "" {
		cfg.Logging.Level = "warn"
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return site.Config{}, err
	}
	return cfg, nil
}

// BuildModule constructs a site module configured from opts.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}

	var siteOpts []site.Option
	if opts.LoggerProvider != nil {
		siteOpts = append(siteOpts, site.WithLoggerProvider(opts.LoggerProvider))
	}
	if opts.EnvLookup != nil {
		siteOpts = append(siteOpts, site.WithEnvLookup(opts.EnvLookup))
	}

	module, err := site.New(cfg, siteOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise site module: %w", err)
	}

	return &Module{
		Module: module,
		Config: cfg,
		Logger: commands.CommandLogger(module.Container().LoggerProvider(), "cli"),
	}, nil
}

// SplitCollections parses comma separated collection names into a trimmed slice.
func SplitCollections(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
