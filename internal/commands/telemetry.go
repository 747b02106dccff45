package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// TelemetryStatus captures the result category for command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes a command execution outcome provided to telemetry callbacks.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	// Logger already carries Fields.
	Logger interfaces.Logger
}

// Telemetry represents an optional callback invoked after command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs command outcomes. A nil logger falls back to the
// handler's logger carried in TelemetryInfo.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logger
		if entry == nil {
			entry = info.Logger
		} else if info.Fields != nil {
			entry = logging.WithFields(entry, info.Fields)
		}
		entry = EnsureLogger(entry)

		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case TelemetryStatusContextError:
			entry.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
