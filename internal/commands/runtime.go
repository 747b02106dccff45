package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// DefaultCommandTimeout bounds a command run unless WithTimeout says otherwise.
// A full content validation reads every file of the site, so it is generous.
const DefaultCommandTimeout = 30 * time.Second

// runContext derives the context a command runs under. A nil parent counts as
// context.Background and a non-positive timeout disables the deadline.
func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// classify maps the outcome of a run to a telemetry status. A run that
// returned nil after its context ended still counts as a context error, and
// err is replaced with the context's error.
func classify(ctx context.Context, err error) (TelemetryStatus, error) {
	ctxErr := ctx.Err()
	switch {
	case err != nil && ctxErr != nil && errors.Is(err, ctxErr):
		return TelemetryStatusContextError, err
	case err != nil:
		return TelemetryStatusFailed, err
	case ctxErr != nil:
		return TelemetryStatusContextError, ctxErr
	default:
		return TelemetryStatusSuccess, nil
	}
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
