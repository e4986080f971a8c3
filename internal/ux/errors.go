package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/driftguard/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions.
// Coded errors already carry their own suggestions and are returned as is.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *errors.DriftguardError
	if stderrors.As(err, &coded) {
		return err
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "drift detected") {
		return NewErrorWithSuggestion(err,
			"Inspect drift.log and the .backup file, or rerun without --fail-on-drift to accept the revert")
	}

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions on the baseline, the current file and its directory")
	}

	if strings.Contains(errMsg, "no such file or directory") {
		return NewErrorWithSuggestion(err,
			"Check the path, or pass --config/--env-file explicitly")
	}

	if stderrors.Is(err, ErrNotInteractive) {
		return NewErrorWithSuggestion(err,
			"Run from a terminal, or drop --confirm to revert without asking")
	}

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check your network connection and the notification endpoint")
	}

	return err
}
