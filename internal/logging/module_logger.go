package logging

import (
	"context"

	"github.com/goliatone/go-site/pkg/interfaces"
)

const (
	rootModule     = "site"
	contentModule  = "site.content"
	markdownModule = "site.markdown"
	commandsModule = "site.commands"
)

const (
	fieldCollection = "collection"
	fieldEntryPath  = "entry_path"
	fieldEntryID    = "entry_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for collection loading
// and validation.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithEntryContext enriches the provided logger with the collection, file
// path and entry id of a content entry. Empty values are ignored.
func WithEntryContext(logger interfaces.Logger, collection, path, id string) interfaces.Logger {
	return WithFields(logger, map[string]any{
		fieldCollection: collection,
		fieldEntryPath:  path,
		fieldEntryID:    id,
	})
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
