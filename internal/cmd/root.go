package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/driftguard/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   version.Name,
	Short: "Configuration drift detection and auto-revert",
	Long: `driftguard compares a live configuration file against a trusted baseline.
When a top-level key has drifted it backs up the live file, restores it from
the baseline, appends a record to drift.log and notifies the configured
channels.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// SIGINT or SIGTERM
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
