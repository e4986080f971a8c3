package engine

import (
	"io"

	"github.com/felixgeelhaar/driftguard/internal/config"
	"github.com/felixgeelhaar/driftguard/internal/document"
	"github.com/felixgeelhaar/driftguard/internal/log"
	"github.com/felixgeelhaar/driftguard/internal/metrics"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/report"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

// FromConfig wires an engine from the run configuration. out receives the
// rendered report. confirm is used only when cfg.Confirm is set.
//
// Notification channels that fail validation are skipped; their NOTIFY-002
// errors are logged here and attached as warnings to every run.
func FromConfig(cfg *config.Config, out io.Writer, confirm revert.ConfirmFunc, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Discard()
	}

	reporter, err := report.New(report.Options{
		Writer:  out,
		Format:  cfg.Output,
		NoColor: cfg.NoColor,
		LogFile: cfg.LogFile,
	}, logger)
	if err != nil {
		return nil, err
	}

	notifiers, skipped := notify.Build(cfg.Notify, logger)
	for _, err := range skipped {
		logger.WithError(err).Warn("notification channel skipped")
	}

	revertOptions := revert.Options{DryRun: cfg.DryRun}
	if cfg.Confirm {
		revertOptions.Confirm = confirm
	}

	deps := Deps{
		Loader:     document.NewFileLoader(),
		Reverter:   revert.NewOrchestrator(revertOptions, logger),
		Reporter:   reporter,
		Dispatcher: notify.NewDispatcher(notifiers, cfg.Notify.Timeout, logger),
		Logger:     logger,
	}
	if cfg.MetricsFile != "" {
		deps.Registry, deps.Metrics = metrics.NewRegistry()
	}

	e := New(deps, Options{
		FailOnDrift: cfg.FailOnDrift,
		MetricsFile: cfg.MetricsFile,
	})
	e.setupWarnings = skipped

	logger.Debug("engine configured",
		"output", cfg.Output,
		"log_file", cfg.LogFile,
		"dry_run", cfg.DryRun,
		"confirm", cfg.Confirm,
		"channels", len(notifiers),
		"config_file", cfg.Source)

	return e, nil
}
