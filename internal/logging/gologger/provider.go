package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// Config mirrors the logging section of the runtime configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus limits output to the listed module names, e.g. "site.content".
	Focus []string
}

var formats = map[string]func() glog.Option{
	"console": func() glog.Option { return glog.WithLoggerTypeConsole() },
	"json":    func() glog.Option { return glog.WithLoggerTypeJSON() },
	"pretty":  func() glog.Option { return glog.WithLoggerTypePretty() },
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out go-logger module loggers. Loggers are created once per
// module name and shared afterwards.
type Provider struct {
	root *glog.BaseLogger

	mu      sync.Mutex
	modules map[string]interfaces.Logger
}

// NewProvider builds the root go-logger from cfg. An empty format selects
// console output.
func NewProvider(cfg Config) (*Provider, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = "console"
	}
	formatOption, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	options := []glog.Option{formatOption()}
	if level := normalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := normalizeFocus(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{root: root, modules: map[string]interfaces.Logger{}}, nil
}

// GetLogger returns the logger of module name; the root logger for a blank name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if logger, ok := p.modules[name]; ok {
		return logger
	}
	logger := wrap(p.root.GetLogger(name))
	p.modules[name] = logger
	return logger
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

// adapter satisfies interfaces.Logger and interfaces.FieldsLogger.
type adapter struct {
	inner glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	switch inner := l.inner.(type) {
	case glog.FieldsLogger:
		return wrap(inner.WithFields(maps.Clone(fields)))
	case interface{ With(...any) *glog.BaseLogger }:
		return wrap(inner.With(fieldArgs(fields)...))
	default:
		return l
	}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return wrap(l.inner.WithContext(ctx))
}

// fieldArgs flattens fields into key/value pairs in key order.
func fieldArgs(fields map[string]any) []any {
	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeLevel(level string) string {
	return levels[strings.ToLower(strings.TrimSpace(level))]
}

func normalizeFocus(names []string) []string {
	var out []string
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" && !slices.Contains(out, trimmed) {
			out = append(out, trimmed)
		}
	}
	return out
}
