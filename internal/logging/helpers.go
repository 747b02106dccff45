package logging

import (
	"strings"

	"github.com/goliatone/go-site/pkg/interfaces"
)

const fieldRunID = "run_id"

// WithFields attaches fields to logger when it implements
// interfaces.FieldsLogger. Nil values and blank strings are dropped and
// string values are trimmed, so callers can pass optional entry data as is.
// A nil logger becomes the no-op logger.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		logger = NoOp()
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	cleaned := make(map[string]any, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v = strings.TrimSpace(v); v == "" {
				continue
			}
			cleaned[key] = v
		default:
			cleaned[key] = value
		}
	}
	if len(cleaned) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(cleaned)
}

// WithRun tags logger with the id of a validation run.
func WithRun(logger interfaces.Logger, runID string) interfaces.Logger {
	return WithFields(logger, map[string]any{fieldRunID: runID})
}
