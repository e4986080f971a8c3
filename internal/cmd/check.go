package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/driftguard/internal/config"
	"github.com/felixgeelhaar/driftguard/internal/engine"
	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

var checkCmd = &cobra.Command{
	Use:   "check <baseline> <current>",
	Short: "Detect drift between a baseline and a live configuration file",
	Long: `Compare every top-level key of the baseline with the same key in the
current file. Keys only present in the current file are ignored.

On drift the current file is copied to <current>.backup, overwritten with the
baseline and verified. A record is appended to the drift log and every
configured notification channel is told what happened.

Notification channels are read from the config file and from the
environment (EMAIL_SENDER, EMAIL_RECEIVER, EMAIL_PASSWORD, SMTP_SERVER,
SMTP_PORT, DRIFTGUARD_WEBHOOK_URL, DRIFTGUARD_SLACK_WEBHOOK_URL).

Exit codes:
  0 - No drift, or drift reverted
  2 - Invalid flags or configuration
  3 - Baseline or current file missing, unreadable or malformed
  4 - Drift detected with --fail-on-drift
  5 - Drift detected but the revert failed`,
	Example: `  driftguard check baseline.yaml current.yaml
  driftguard check baseline.yaml current.yaml --dry-run -o json
  driftguard check baseline.yaml current.yaml --config driftguard.yaml --fail-on-drift`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

var checkOpts struct {
	output      string
	logFile     string
	dryRun      bool
	confirm     bool
	failOnDrift bool
	configFile  string
	envFile     string
	metricsFile string
	logLevel    string
	logFormat   string
	noColor     bool
}

func init() {
	f := checkCmd.Flags()
	f.StringVarP(&checkOpts.output, "output", "o", ux.FormatText, "output format: text, json, yaml or sarif")
	f.StringVar(&checkOpts.logFile, "log-file", "drift.log", `append-only drift log ("" disables)`)
	f.BoolVar(&checkOpts.dryRun, "dry-run", false, "detect and report without backup or revert")
	f.BoolVar(&checkOpts.confirm, "confirm", false, "ask before reverting (interactive terminals only)")
	f.BoolVar(&checkOpts.failOnDrift, "fail-on-drift", false, "exit 4 when drift was found, even if it was reverted")
	f.StringVar(&checkOpts.configFile, "config", "", "YAML config file (default: discovered .driftguard.yaml)")
	f.StringVar(&checkOpts.envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before reading the environment")
	f.StringVar(&checkOpts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	f.StringVar(&checkOpts.logLevel, "log-level", "warn", "diagnostic log level: debug, info, warn or error")
	f.StringVar(&checkOpts.logFormat, "log-format", "text", "diagnostic log format: text or json")
	f.BoolVar(&checkOpts.noColor, "no-color", false, "disable colored output")

	_ = checkCmd.MarkFlagFilename("config", "yaml", "yml")
	_ = checkCmd.MarkFlagFilename("env-file")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile:      checkOpts.configFile,
		EnvFile:         checkOpts.envFile,
		EnvFileExplicit: cmd.Flags().Changed("env-file"),
		Flags:           changedFlags(cmd.Flags()),
	})
	if err != nil {
		return err
	}

	if cfg.Confirm && !ux.IsInteractive() {
		return errors.NewConfigInvalidError("--confirm needs an interactive terminal", ux.ErrNotInteractive)
	}

	logConfig := cfg.LoggerConfig()
	logConfig.Output = log.NewOutput(cmd.ErrOrStderr())
	logger := log.New(logConfig).With("command", "check")
	if cfg.Source != "" {
		logger.Debug("config file loaded", "path", cfg.Source)
	}

	e, err := engine.FromConfig(cfg, cmd.OutOrStdout(), ux.ConfirmRevert, logger)
	if err != nil {
		return err
	}

	_, err = e.Run(cmd.Context(), args[0], args[1])
	return err
}

// changedFlags returns the overrides for flags set on the command line.
// Unset flags leave the config file and environment in charge.
func changedFlags(flags *pflag.FlagSet) config.Flags {
	var f config.Flags
	set := flags.Changed

	if set("output") {
		f.Output = &checkOpts.output
	}
	if set("log-file") {
		f.LogFile = &checkOpts.logFile
	}
	if set("dry-run") {
		f.DryRun = &checkOpts.dryRun
	}
	if set("confirm") {
		f.Confirm = &checkOpts.confirm
	}
	if set("fail-on-drift") {
		f.FailOnDrift = &checkOpts.failOnDrift
	}
	if set("metrics-file") {
		f.MetricsFile = &checkOpts.metricsFile
	}
	if set("log-level") {
		f.LogLevel = &checkOpts.logLevel
	}
	if set("log-format") {
		f.LogFormat = &checkOpts.logFormat
	}
	if set("no-color") {
		f.NoColor = &checkOpts.noColor
	}

	return f
}
