package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site/pkg/interfaces"
)

type testMessage struct{}

func (testMessage) Type() string { return "site.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "site.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	entries *[]recordedEntry
	fields  map[string]any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]recordedEntry{}}
}

func (l *recordingLogger) record(level, msg string) {
	*l.entries = append(*l.entries, recordedEntry{level: level, msg: msg, fields: l.fields})
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record("trace", msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record("fatal", msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{entries: l.entries, fields: merged}
}

func (l *recordingLogger) find(msg string) (recordedEntry, bool) {
	for _, entry := range *l.entries {
		if entry.msg == msg {
			return entry, true
		}
	}
	return recordedEntry{}, false
}

func TestHandlerLogsWithOperationAndMessageFields(t *testing.T) {
	logger := newRecordingLogger()
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithLogger[testMessage](logger),
		WithOperation[testMessage]("content.validate"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"collections": 2}
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	entry, ok := logger.find("command.execute.success")
	if !ok {
		t.Fatalf("expected success entry, got %#v", *logger.entries)
	}
	if entry.level != "info" {
		t.Fatalf("expected info level, got %s", entry.level)
	}
	if entry.fields["command"] != "site.test.message" || entry.fields["operation"] != "content.validate" || entry.fields["collections"] != 2 {
		t.Fatalf("unexpected fields %#v", entry.fields)
	}
}

func TestHandlerInvokesTelemetry(t *testing.T) {
	var infos []TelemetryInfo
	telemetry := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		infos = append(infos, info)
	}
	failing := errors.New("boom")
	calls := 0
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		calls++
		if calls == 2 {
			return failing
		}
		return nil
	}, WithTelemetry[testMessage](telemetry), WithOperation[testMessage]("test.op"))

	_ = h.Execute(context.Background(), testMessage{})
	_ = h.Execute(context.Background(), testMessage{})

	if len(infos) != 2 {
		t.Fatalf("expected two telemetry callbacks, got %d", len(infos))
	}
	if infos[0].Status != TelemetryStatusSuccess || infos[0].Operation != "test.op" || infos[0].Command != "site.test.message" {
		t.Fatalf("unexpected success telemetry %#v", infos[0])
	}
	if infos[1].Status != TelemetryStatusFailed || !errors.Is(infos[1].Error, failing) {
		t.Fatalf("unexpected failure telemetry %#v", infos[1])
	}
}

func TestDefaultTelemetryReportsContextErrors(t *testing.T) {
	logger := newRecordingLogger()
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithLogger[testMessage](logger), WithTimeout[testMessage](time.Millisecond))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected timeout error")
	}
	entry, ok := logger.find("command.execute.context_error")
	if !ok || entry.level != "error" {
		t.Fatalf("expected context error entry, got %#v", *logger.entries)
	}
}

func TestWrapValidationKeepsExistingCategory(t *testing.T) {
	base := WrapValidation(errors.New("bad content"), "content invalid", "CONTENT_INVALID")
	if !IsValidationFailure(base) {
		t.Fatalf("expected validation category, got %v", base)
	}
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return base
	})
	err := h.Execute(context.Background(), testMessage{})
	if !IsValidationFailure(err) {
		t.Fatalf("expected handler to keep validation category, got %v", err)
	}
	if WrapValidation(nil, "x", "y") != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestCommandLoggerWithoutProvider(t *testing.T) {
	logger := CommandLogger(nil, " ")
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.Info("ignored")
}
