package engine

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/driftguard/internal/document"
	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
	"github.com/felixgeelhaar/driftguard/internal/metrics"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/report"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

// State is how far a run got
type State string

const (
	StateLoaded       State = "loaded"
	StateCompared     State = "compared"
	StateClean        State = "clean"
	StateDrifted      State = "drifted"
	StateReverted     State = "reverted"
	StateRevertFailed State = "revert_failed"
	StateSkipped      State = "skipped"
	StateReported     State = "reported"
)

// Reverter restores current from baseline for a drifted report
type Reverter interface {
	Revert(ctx context.Context, report *drift.Report) (*revert.Result, error)
}

// Deps are the collaborators a run uses
type Deps struct {
	Loader     document.Loader
	Reverter   Reverter
	Reporter   *report.Reporter
	Dispatcher *notify.Dispatcher
	Logger     *log.Logger

	// Metrics and Registry are optional. Metrics are written to
	// MetricsFile at the end of every run when both are set.
	Metrics  *metrics.Metrics
	Registry prometheus.Gatherer
}

// Options change what a run reports as failure
type Options struct {
	// FailOnDrift returns a DRIFT-001 error for any drifted run
	FailOnDrift bool

	// MetricsFile is the Prometheus textfile path
	MetricsFile string
}

// Result is the outcome of one run
type Result struct {
	// State is the last state reached; StateReported for every run that
	// got as far as comparison
	State State

	// Path records each state the run passed through
	Path []State

	// Run is nil when an input could not be loaded
	Run *report.Run

	// Warnings are best-effort failures that did not stop the run
	Warnings []error
}

func (r *Result) enter(s State) {
	r.State = s
	r.Path = append(r.Path, s)
}

func (r *Result) warn(err error) {
	r.Warnings = append(r.Warnings, err)
	if r.Run != nil {
		r.Run.Warnings = append(r.Run.Warnings, err.Error())
	}
}

// Engine runs a single drift check
type Engine struct {
	deps    Deps
	options Options

	// setupWarnings are reported with every run, e.g. skipped channels
	setupWarnings []error

	now func() time.Time
}

// New creates an engine. Missing optional deps are replaced with no-ops.
func New(deps Deps, options Options) *Engine {
	if deps.Loader == nil {
		deps.Loader = document.NewFileLoader()
	}
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.Reverter == nil {
		deps.Reverter = revert.NewOrchestrator(revert.Options{}, deps.Logger)
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = notify.NewDispatcher(nil, 0, deps.Logger)
	}
	return &Engine{
		deps:    deps,
		options: options,
		now:     time.Now,
	}
}

// Run loads both files, compares them and, on drift, reverts, logs,
// notifies and reports, in that order.
//
// The returned error is the run's verdict: an input error (IO-001/002/005),
// a revert error (REVERT-00x), DRIFT-001 with FailOnDrift, or nil. Log,
// notification, render and metrics failures are only warnings.
func (e *Engine) Run(ctx context.Context, baselinePath, currentPath string) (*Result, error) {
	start := e.now()
	logger := e.deps.Logger.With("baseline", baselinePath, "current", currentPath)
	result := &Result{}

	baseline, err := e.deps.Loader.Load(baselinePath)
	if err != nil {
		return result, e.fail(result, err, start)
	}
	current, err := e.deps.Loader.Load(currentPath)
	if err != nil {
		return result, e.fail(result, err, start)
	}
	result.enter(StateLoaded)

	rep := drift.Compare(baseline, current)
	result.enter(StateCompared)
	logger.Debug("documents compared", "run_id", rep.RunID, "keys_checked", rep.Summary.KeysChecked, "drifted", rep.Summary.Drifted)
	if e.deps.Metrics != nil {
		e.deps.Metrics.ObserveReport(rep)
	}

	if rep.IsClean() {
		result.enter(StateClean)
		result.Run = report.NewRun(rep, nil)
		e.addSetupWarnings(result)
		e.render(result, logger)
		result.enter(StateReported)
		e.finish(result, metrics.ResultClean, nil, start)
		logger.Info("no drift detected")
		return result, nil
	}

	result.enter(StateDrifted)
	logger.Warn("configuration drift detected", "run_id", rep.RunID, "keys", rep.Keys())

	revertResult, revertErr := e.deps.Reverter.Revert(ctx, rep)
	if revertResult == nil {
		revertResult = &revert.Result{
			Outcome:      revert.OutcomeFailed,
			BaselinePath: rep.BaselinePath,
			CurrentPath:  rep.CurrentPath,
		}
	}
	switch {
	case revertErr != nil:
		result.enter(StateRevertFailed)
		logger.LogError("revert failed", revertErr)
	case revertResult.Reverted():
		result.enter(StateReverted)
		logger.WithGroup("revert").Info("current restored from baseline",
			"backup", revertResult.BackupPath,
			"verified", revertResult.Verified,
			"duration", revertResult.Duration)
	default:
		result.enter(StateSkipped)
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.ObserveRevert(revertResult)
	}

	result.Run = report.NewRun(rep, revertResult)
	e.addSetupWarnings(result)

	if e.deps.Reporter != nil {
		if err := e.deps.Reporter.Log(rep, result.Run.Action); err != nil {
			result.warn(err)
		} else {
			result.Run.LogFile = e.deps.Reporter.LogPath()
		}
	}

	if e.deps.Dispatcher.Len() > 0 {
		results := e.deps.Dispatcher.Dispatch(ctx, notify.NewMessage(rep, revertResult))
		result.Run.Notifications = results
		if failed := notify.Failed(results); len(failed) > 0 {
			channels := make([]string, 0, len(failed))
			for _, r := range failed {
				channels = append(channels, r.Channel)
			}
			logger.Warn("notifications not delivered", "failed", channels, "sent", len(results)-len(failed))
		}
		if e.deps.Metrics != nil {
			e.deps.Metrics.ObserveNotifications(results)
		}
	}

	e.render(result, logger)
	result.enter(StateReported)

	var verdict error
	switch {
	case revertErr != nil:
		verdict = revertErr
	case e.options.FailOnDrift:
		verdict = errors.NewDriftDetectedError(len(rep.Entries), rep.CurrentPath)
	}

	e.finish(result, metrics.ResultDrifted, verdict, start)
	return result, verdict
}

func (e *Engine) addSetupWarnings(result *Result) {
	for _, w := range e.setupWarnings {
		result.warn(w)
	}
}

func (e *Engine) render(result *Result, logger *log.Logger) {
	if e.deps.Reporter == nil {
		return
	}
	if err := e.deps.Reporter.Render(result.Run); err != nil {
		logger.WithError(err).Warn("report not rendered")
		result.Warnings = append(result.Warnings, err)
	}
}

// fail ends a run that could not reach comparison
func (e *Engine) fail(result *Result, err error, start time.Time) error {
	e.deps.Logger.LogError("input could not be loaded", err)
	e.finish(result, metrics.ResultError, err, start)
	return err
}

// finish records run metrics and writes the textfile
func (e *Engine) finish(result *Result, outcome string, err error, start time.Time) {
	if e.deps.Metrics == nil {
		return
	}

	end := e.now()
	if err != nil && !errors.HasCode(err, errors.ErrCodeDriftDetected) {
		e.deps.Metrics.ObserveError(err)
	}
	e.deps.Metrics.ObserveRun(outcome, end.Sub(start), end)

	if e.options.MetricsFile == "" || e.deps.Registry == nil {
		return
	}
	if werr := metrics.WriteTextfile(e.options.MetricsFile, e.deps.Registry); werr != nil {
		e.deps.Logger.WithError(werr).Warn("metrics not written", "path", e.options.MetricsFile)
		result.Warnings = append(result.Warnings, werr)
	}
}
