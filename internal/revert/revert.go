package revert

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/driftguard/internal/document"
	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
)

// BackupSuffix is appended to the current path to name the backup
const BackupSuffix = ".backup"

// ErrNothingToRevert is returned for a report without entries
var ErrNothingToRevert = stderrors.New("nothing to revert: report has no drift")

// Outcome describes what the orchestrator did
type Outcome string

const (
	OutcomeReverted Outcome = "reverted"
	OutcomeDryRun   Outcome = "dry_run"
	OutcomeDeclined Outcome = "declined"
	OutcomeFailed   Outcome = "failed"
)

// ConfirmFunc asks an operator whether to proceed with a revert
type ConfirmFunc func(ctx context.Context, report *drift.Report) (bool, error)

// Options control how a revert is carried out
type Options struct {
	// DryRun reports what would happen without touching any file
	DryRun bool

	// Confirm, when set, is asked before the backup is written.
	// A false answer skips the revert.
	Confirm ConfirmFunc
}

// Result contains the result of a revert
type Result struct {
	Outcome      Outcome       `json:"outcome" yaml:"outcome"`
	BaselinePath string        `json:"baseline" yaml:"baseline"`
	CurrentPath  string        `json:"current" yaml:"current"`
	BackupPath   string        `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	RestoredPath string        `json:"restored_path,omitempty" yaml:"restored_path,omitempty"`
	Verified     bool          `json:"verified" yaml:"verified"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Action is the human-readable "Action Taken" line for logs and notifications
func (r *Result) Action() string {
	if r == nil {
		return "None"
	}
	switch r.Outcome {
	case OutcomeReverted:
		return fmt.Sprintf("Auto-reverted %s from %s (Backup saved as %s)",
			r.CurrentPath, r.BaselinePath, r.BackupPath)
	case OutcomeDryRun:
		return "Dry run: no changes made"
	case OutcomeDeclined:
		return "Revert declined by operator"
	default:
		return "Failed to auto-revert configuration."
	}
}

// Reverted reports whether current now holds the baseline bytes
func (r *Result) Reverted() bool {
	return r != nil && r.Outcome == OutcomeReverted
}

// Orchestrator backs up the current file and restores it from the baseline
type Orchestrator struct {
	options Options
	logger  *log.Logger
}

// NewOrchestrator creates a new revert orchestrator
func NewOrchestrator(options Options, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Orchestrator{
		options: options,
		logger:  logger,
	}
}

// BackupPath returns where the backup of current is written
func BackupPath(currentPath string) string {
	return currentPath + BackupSuffix
}

// Revert makes current byte-identical to baseline, strictly in order:
// backup current, restore baseline over current, verify. No step starts
// unless the previous one succeeded, so a failed backup leaves current as is.
func (o *Orchestrator) Revert(ctx context.Context, report *drift.Report) (*Result, error) {
	if report == nil || report.IsClean() {
		return nil, ErrNothingToRevert
	}

	start := time.Now()
	result := &Result{
		BaselinePath: report.BaselinePath,
		CurrentPath:  report.CurrentPath,
	}
	finish := func(outcome Outcome) {
		result.Outcome = outcome
		result.Duration = time.Since(start)
	}

	if o.options.DryRun {
		o.logger.Info("dry run, skipping revert", "current", report.CurrentPath)
		finish(OutcomeDryRun)
		return result, nil
	}

	if o.options.Confirm != nil {
		ok, err := o.options.Confirm(ctx, report)
		if err != nil {
			finish(OutcomeFailed)
			return result, fmt.Errorf("confirm revert: %w", err)
		}
		if !ok {
			o.logger.Info("revert declined", "current", report.CurrentPath)
			finish(OutcomeDeclined)
			return result, nil
		}
	}

	// Past this point the sequence runs to completion or first failure;
	// cancellation is only honoured before the backup starts.
	if err := ctx.Err(); err != nil {
		finish(OutcomeFailed)
		return result, fmt.Errorf("revert cancelled: %w", err)
	}

	baselineData, err := os.ReadFile(report.BaselinePath)
	if err != nil {
		finish(OutcomeFailed)
		return result, errors.NewRestoreError(report.CurrentPath,
			fmt.Errorf("read baseline %s: %w", report.BaselinePath, err))
	}
	if report.BaselineDigest != "" && document.Digest(baselineData) != report.BaselineDigest {
		finish(OutcomeFailed)
		return result, errors.NewRestoreError(report.CurrentPath,
			fmt.Errorf("baseline %s changed since it was compared", report.BaselinePath))
	}

	target, err := filepath.EvalSymlinks(report.CurrentPath)
	if err != nil {
		finish(OutcomeFailed)
		return result, errors.NewBackupError(BackupPath(report.CurrentPath), err)
	}

	backupPath, err := o.backup(report.CurrentPath, target)
	if err != nil {
		finish(OutcomeFailed)
		return result, err
	}
	result.BackupPath = backupPath

	if err := o.restore(target, baselineData); err != nil {
		finish(OutcomeFailed)
		return result, errors.NewRestoreError(report.CurrentPath, err)
	}
	result.RestoredPath = target

	if err := verify(target, baselineData); err != nil {
		finish(OutcomeFailed)
		return result, err
	}
	result.Verified = true

	finish(OutcomeReverted)
	o.logger.Info("configuration reverted",
		"current", report.CurrentPath,
		"baseline", report.BaselinePath,
		"backup", backupPath,
		"duration", result.Duration)

	return result, nil
}

// backup copies the bytes of target to <current>.backup and makes them durable
func (o *Orchestrator) backup(currentPath, target string) (string, error) {
	backupPath := BackupPath(currentPath)

	data, err := os.ReadFile(target)
	if err != nil {
		return "", errors.NewBackupError(backupPath, fmt.Errorf("read %s: %w", target, err))
	}

	if err := writeFileAtomic(backupPath, data, fileMode(target, 0600)); err != nil {
		return "", errors.NewBackupError(backupPath, err)
	}

	o.logger.Debug("backup written", "path", backupPath, "bytes", len(data))
	return backupPath, nil
}

// restore replaces target with the baseline bytes, keeping target's permissions
func (o *Orchestrator) restore(target string, baselineData []byte) error {
	if err := writeFileAtomic(target, baselineData, fileMode(target, 0644)); err != nil {
		return err
	}

	o.logger.Debug("baseline restored", "path", target, "bytes", len(baselineData))
	return nil
}

func verify(target string, baselineData []byte) error {
	restored, err := os.ReadFile(target)
	if err != nil {
		return errors.NewRestoreError(target, fmt.Errorf("re-read after restore: %w", err))
	}

	want, got := document.Digest(baselineData), document.Digest(restored)
	if want != got {
		return errors.NewVerifyError(target, want, got)
	}
	return nil
}
