package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/driftguard/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution (no drift, or drift handled)
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// InputError indicates a baseline or current file could not be loaded
	InputError = 3

	// DriftDetected indicates drift was found and --fail-on-drift was set
	DriftDetected = 4

	// RevertFailed indicates drift was found but the revert did not complete
	RevertFailed = 5

	// Interrupted indicates the run was cancelled by SIGINT or SIGTERM
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeFileNotFound, errors.ErrCodeFileReadFailed, errors.ErrCodeFileUnmarshal:
		return InputError
	case errors.ErrCodeDriftDetected:
		return DriftDetected
	case errors.ErrCodeBackupFailed, errors.ErrCodeRestoreFailed, errors.ErrCodeVerifyFailed:
		return RevertFailed
	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigNotFound, errors.ErrCodeUnknownFormat:
		return UsageError
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "drift detected") {
		return DriftDetected
	}

	// Usage errors reported by cobra
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case InputError:
		return "Input file missing, unreadable or malformed"
	case DriftDetected:
		return "Configuration drift detected"
	case RevertFailed:
		return "Configuration drift detected but revert failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
