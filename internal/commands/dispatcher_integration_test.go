package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type retryThenSucceed struct{ Collection string }

func (retryThenSucceed) Type() string    { return "site.test.dispatcher.retry" }
func (retryThenSucceed) Validate() error { return nil }

type alwaysFail struct{ Collection string }

func (alwaysFail) Type() string    { return "site.test.dispatcher.fail" }
func (alwaysFail) Validate() error { return nil }

func TestDispatcherRetriesHandlerUntilSuccess(t *testing.T) {
	attempts := 0
	handler := NewHandler(func(_ context.Context, msg retryThenSucceed) error {
		attempts++
		if attempts == 1 {
			return errors.New("content root busy: " + msg.Collection)
		}
		return nil
	}, WithTimeout[retryThenSucceed](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retryThenSucceed{Collection: "pages"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected initial attempt plus one retry, got %d", attempts)
	}
}

func TestDispatcherReportsExhaustedRetries(t *testing.T) {
	attempts := 0
	handler := NewHandler(func(_ context.Context, _ alwaysFail) error {
		attempts++
		return errors.New("schema registry unavailable")
	}, WithTimeout[alwaysFail](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), alwaysFail{Collection: "legal"}); err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected initial attempt plus two retries, got %d", attempts)
	}
}
