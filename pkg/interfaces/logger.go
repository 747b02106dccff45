package interfaces

import "context"

// Logger is the leveled logging contract used across the site packages. It
// follows the method set of github.com/goliatone/go-logger so the glog
// provider plugs in without an extra shim.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per module namespace.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields on
// every subsequent entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
