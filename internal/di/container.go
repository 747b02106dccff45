package di

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-site/internal/collections"
	contentcmd "github.com/goliatone/go-site/internal/commands/content"
	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/internal/logging/gologger"
	"github.com/goliatone/go-site/internal/markdown"
	"github.com/goliatone/go-site/internal/projectconfig"
	"github.com/goliatone/go-site/internal/runtimeconfig"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// ErrContentRootInvalid is returned when the configured root is not a directory.
var ErrContentRootInvalid = errors.New("di: content root is not a directory")

// Container wires the site services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	envLookup      projectconfig.LookupFunc
	project        *projectconfig.Project

	registry    *collections.Registry
	markdown    *markdown.Service
	collections *collections.Service
	commands    *contentcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentFS replaces the filesystem rooted at Config.Root.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithProject supplies the project configuration instead of reading the
// environment and .env files.
func WithProject(project projectconfig.Project) Option {
	return func(c *Container) {
		c.project = &project
	}
}

// WithEnvLookup replaces the process environment used for project settings.
func WithEnvLookup(lookup projectconfig.LookupFunc) Option {
	return func(c *Container) {
		c.envLookup = lookup
	}
}

// NewContainer validates cfg and builds every service. Nothing is read from
// the content tree until a collection is loaded.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureContentFS(); err != nil {
		return nil, err
	}
	c.configureProject()
	if err := c.configureServices(); err != nil {
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "").Debug("site.container.configured",
		"root", cfg.Root,
		"blog_enabled", c.project.Modules.Blog.Enabled,
		"check_images", cfg.Assets.CheckImages,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureContentFS() error {
	if c.contentFS != nil {
		return nil
	}
	info, err := os.Stat(c.Config.Root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrContentRootInvalid, c.Config.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrContentRootInvalid, c.Config.Root)
	}
	c.contentFS = os.DirFS(c.Config.Root)
	return nil
}

func (c *Container) configureProject() {
	if c.project == nil {
		files := make([]string, 0, len(c.Config.Project.EnvFiles))
		for _, file := range c.Config.Project.EnvFiles {
			if !filepath.IsAbs(file) {
				file = filepath.Join(c.Config.Root, file)
			}
			files = append(files, file)
		}
		project := projectconfig.Load(projectconfig.Options{EnvFiles: files, Lookup: c.envLookup})
		c.project = &project
	}
	if c.Config.Features.Blog {
		c.project.Modules.Blog.Enabled = true
	}
}

func (c *Container) configureServices() error {
	var registryOpts []collections.RegistryOption
	if c.Config.Assets.CheckImages {
		registryOpts = append(registryOpts, collections.WithAssetFS(c.contentFS))
	}
	registry, err := collections.NewRegistry(registryOpts...)
	if err != nil {
		return err
	}
	c.registry = registry

	parser := c.Config.Markdown.Parser
	c.markdown = markdown.NewServiceFS(c.contentFS, markdown.Config{
		Parser: interfaces.ParseOptions{
			Extensions: append([]string(nil), parser.Extensions...),
			Sanitize:   parser.Sanitize,
			HardWraps:  parser.HardWraps,
			SafeMode:   parser.SafeMode,
		},
		WordsPerMinute: c.Config.Markdown.WordsPerMinute,
		Logger:         logging.MarkdownLogger(c.loggerProvider),
	}, nil)

	definitions, err := resolveDefinitions(c.Config.Collections)
	if err != nil {
		return err
	}
	c.collections = collections.NewService(registry, c.markdown,
		collections.WithLogger(logging.ContentLogger(c.loggerProvider)),
		collections.WithDefinitions(definitions...),
	)

	project := c.project
	commands, err := contentcmd.RegisterContentCommands(nil, c.collections, c.loggerProvider, contentcmd.FeatureGates{
		BlogEnabled: func() bool { return project.Modules.Blog.Enabled },
	})
	if err != nil {
		return err
	}
	c.commands = commands
	return nil
}

// resolveDefinitions applies the configured overrides to the default layout.
func resolveDefinitions(overrides []runtimeconfig.CollectionConfig) ([]collections.Definition, error) {
	definitions := collections.DefaultDefinitions()
	for _, override := range overrides {
		name, ok := collections.ParseName(override.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", collections.ErrUnknownCollection, override.Name)
		}
		for i := range definitions {
			if definitions[i].Name != name {
				continue
			}
			definitions[i].Base = strings.Trim(filepath.ToSlash(strings.TrimSpace(override.Base)), "/")
			if pattern := strings.TrimSpace(override.Pattern); pattern != "" {
				definitions[i].Pattern = pattern
			}
		}
	}
	return definitions, nil
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ContentFS returns the filesystem content is read from.
func (c *Container) ContentFS() fs.FS {
	return c.contentFS
}

// Project returns a copy of the project configuration.
func (c *Container) Project() projectconfig.Project {
	return *c.project
}

// Registry returns the schema registry.
func (c *Container) Registry() *collections.Registry {
	return c.registry
}

// MarkdownService returns the Markdown service.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdown
}

// CollectionService returns the collection loader.
func (c *Container) CollectionService() *collections.Service {
	return c.collections
}

// ValidateContentHandler returns the content validation command handler.
func (c *Container) ValidateContentHandler() *contentcmd.ValidateContentHandler {
	return c.commands.Validate
}
