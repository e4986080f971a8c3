package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"

	// Drift errors (DRIFT-001 to DRIFT-099)
	ErrCodeDriftDetected ErrorCode = "DRIFT-001"

	// Revert errors (REVERT-001 to REVERT-099)
	ErrCodeBackupFailed  ErrorCode = "REVERT-001"
	ErrCodeRestoreFailed ErrorCode = "REVERT-002"
	ErrCodeVerifyFailed  ErrorCode = "REVERT-003"

	// Notification errors (NOTIFY-001 to NOTIFY-099)
	ErrCodeNotifyFailed ErrorCode = "NOTIFY-001"
	ErrCodeNotifyConfig ErrorCode = "NOTIFY-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-001"
	ErrCodeConfigNotFound ErrorCode = "CONFIG-002"

	// Usage errors (USAGE-001 to USAGE-099)
	ErrCodeUnknownFormat ErrorCode = "USAGE-001"
)

// DriftguardError represents an enhanced error with code, suggestions, and documentation
type DriftguardError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *DriftguardError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DriftguardError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DriftguardError with the same code.
// This lets callers match on a code-only sentinel such as New(ErrCodeBackupFailed, "").
func (e *DriftguardError) Is(target error) bool {
	t, ok := target.(*DriftguardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new DriftguardError
func New(code ErrorCode, message string) *DriftguardError {
	return &DriftguardError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new DriftguardError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *DriftguardError {
	return &DriftguardError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *DriftguardError) WithSuggestion(suggestion string) *DriftguardError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *DriftguardError) WithSuggestions(suggestions ...string) *DriftguardError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *DriftguardError) WithDocs(url string) *DriftguardError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first DriftguardError in err's chain,
// or the empty code if there is none.
func CodeOf(err error) ErrorCode {
	var dgErr *DriftguardError
	if stderrors.As(err, &dgErr) {
		return dgErr.Code
	}
	return ""
}

// HasCode reports whether err's chain contains a DriftguardError with code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &DriftguardError{Code: code})
}

// Common error constructors for frequently used errors

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *DriftguardError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileReadError creates an unreadable file error
func NewFileReadError(path string, cause error) *DriftguardError {
	return Wrap(ErrCodeFileReadFailed, fmt.Sprintf("failed to read file: %s", path), cause).
		WithSuggestion("Verify you have read permissions on the file")
}

// NewFileWriteError creates a write failure error
func NewFileWriteError(path string, cause error) *DriftguardError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write file: %s", path), cause)
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *DriftguardError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

// NewDriftDetectedError reports drift when the run must fail on it
func NewDriftDetectedError(keys int, currentPath string) *DriftguardError {
	return New(ErrCodeDriftDetected, fmt.Sprintf("drift detected in %d key(s) of %s", keys, currentPath)).
		WithSuggestion("Inspect drift.log and the .backup file, or rerun without --fail-on-drift to accept the revert")
}

// NewBackupError creates a backup failure error. The current file has not been touched.
func NewBackupError(backupPath string, cause error) *DriftguardError {
	return Wrap(ErrCodeBackupFailed, fmt.Sprintf("failed to write backup: %s", backupPath), cause).
		WithSuggestion("Check that the directory holding the current file is writable").
		WithSuggestion("The current file was left unchanged; fix the problem and rerun")
}

// NewRestoreError creates a restore failure error
func NewRestoreError(currentPath string, cause error) *DriftguardError {
	return Wrap(ErrCodeRestoreFailed, fmt.Sprintf("failed to restore baseline onto: %s", currentPath), cause).
		WithSuggestion("The backup was written; restore manually from it if needed")
}

// NewVerifyError creates a post-restore verification error
func NewVerifyError(currentPath string, expected, actual string) *DriftguardError {
	return New(ErrCodeVerifyFailed, fmt.Sprintf("restored file %s does not match baseline (expected digest %s, got %s)",
		currentPath, expected, actual)).
		WithSuggestion("Another process may have written the file during revert")
}

// NewNotifyError creates a notification delivery error
func NewNotifyError(channel string, cause error) *DriftguardError {
	return Wrap(ErrCodeNotifyFailed, fmt.Sprintf("notification via %s failed", channel), cause)
}

// NewNotifyConfigError creates a notification configuration error
func NewNotifyConfigError(channel string, details string) *DriftguardError {
	return New(ErrCodeNotifyConfig, fmt.Sprintf("%s notification not configured: %s", channel, details))
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string, cause error) *DriftguardError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details), cause).
		WithSuggestion("Run 'driftguard check --help' to see valid options")
}

// NewConfigNotFoundError creates an error for an explicitly named config file that does not exist
func NewConfigNotFoundError(path string) *DriftguardError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("config file not found: %s", path)).
		WithSuggestion("Check the path passed to --config or --env-file")
}

// NewUnknownFormatError creates an unknown output format error
func NewUnknownFormatError(format string) *DriftguardError {
	return New(ErrCodeUnknownFormat, fmt.Sprintf("unknown output format: %s", format)).
		WithSuggestion("Use one of: text, json, yaml, sarif")
}
