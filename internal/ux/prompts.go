package ux

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

// ErrNotInteractive is returned when a prompt is needed but there is no terminal
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal")

// Confirm asks a yes/no question on the terminal
func Confirm(ctx context.Context, title, description string, defaultYes bool) (bool, error) {
	if !IsInteractive() {
		return false, ErrNotInteractive
	}

	answer := defaultYes
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&answer).
		Affirmative("Yes").
		Negative("No")

	if err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx); err != nil {
		return false, err
	}

	return answer, nil
}

// ConfirmRevert asks the operator whether the drifted keys should be reverted
func ConfirmRevert(ctx context.Context, report *drift.Report) (bool, error) {
	title := fmt.Sprintf("Revert %s to match %s?", report.CurrentPath, report.BaselinePath)
	return Confirm(ctx, title, RevertDescription(report), false)
}

// RevertDescription summarises what a revert would change
func RevertDescription(report *drift.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d drifted key(s): %s\n", len(report.Entries), strings.Join(report.Keys(), ", "))
	fmt.Fprintf(&b, "The current file is backed up to %s first.", revert.BackupPath(report.CurrentPath))
	return b.String()
}
