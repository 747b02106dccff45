package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

// WrapValidation tags err as a validation failure unless it already carries a category.
func WrapValidation(err error, message, textCode string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(textCode)
}

// IsValidationFailure reports whether err was tagged as a validation failure,
// either of the command message or of the data it processed.
func IsValidationFailure(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

func wrapValidationError(err error) error {
	return WrapValidation(err, "command validation failed", commandValidationCode)
}

var contextFailures = []struct {
	err      error
	message  string
	textCode string
}{
	{context.Canceled, "command execution cancelled", commandContextCanceled},
	{context.DeadlineExceeded, "command execution deadline exceeded", commandContextTimeout},
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	for _, failure := range contextFailures {
		if errors.Is(err, failure.err) {
			return goerrors.Wrap(err, goerrors.CategoryCommand, failure.message).WithTextCode(failure.textCode)
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").WithTextCode(commandContextErrorCode)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").WithTextCode(commandExecuteFailed)
}
