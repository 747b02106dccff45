package contentcmd

import (
	"errors"

	"github.com/goliatone/go-site/internal/commands"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the content command handlers produced by RegisterContentCommands.
type HandlerSet struct {
	Validate *ValidateContentHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	validateHandlerOpts []commands.HandlerOption[ValidateContentCommand]
}

// WithValidateHandlerOptions forwards options to the ValidateContentHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateContentCommand]) Option {
	return func(cfg *options) {
		cfg.validateHandlerOpts = append(cfg.validateHandlerOpts, opts...)
	}
}

// RegisterContentCommands builds the content command handlers and registers
// them with reg when it is non-nil.
func RegisterContentCommands(reg CommandRegistry, loader ContentLoader, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if loader == nil {
		return nil, errors.New("content command registration: loader is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "content")
	validateHandler := NewValidateContentHandler(loader, logger, gates, cfg.validateHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(validateHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{Validate: validateHandler}, nil
}
