package report

import (
	"io"
	"os"

	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/log"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

// Options configure a Reporter
type Options struct {
	// Writer receives the console or machine-readable view (default: stdout)
	Writer io.Writer

	// Format is one of ux.Formats
	Format string

	// NoColor forces plain console output
	NoColor bool

	// LogFile is the drift log path; empty disables the drift log
	LogFile string
}

// Reporter renders the views of a run. Every view is independent: a failure
// in one is returned to the caller as a warning and does not stop the others.
type Reporter struct {
	out       io.Writer
	format    string
	color     bool
	formatter ux.Formatter
	driftLog  *DriftLog
	logger    *log.Logger
}

// New creates a reporter. It fails only for an unknown format.
func New(opts Options, logger *log.Logger) (*Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = ux.FormatText
	}
	if err := ux.ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Discard()
	}

	r := &Reporter{
		out:    opts.Writer,
		format: opts.Format,
		color:  ux.ColorEnabled(opts.Writer, opts.NoColor),
		logger: logger,
	}

	if ux.IsMachineReadable(opts.Format) {
		formatter, err := ux.NewFormatter(opts.Format, &ux.FormatterOptions{Writer: opts.Writer, NoColor: true})
		if err != nil {
			return nil, err
		}
		r.formatter = formatter
	}

	if opts.LogFile != "" {
		r.driftLog = NewDriftLog(opts.LogFile, opts.Format)
	}

	return r, nil
}

// LogPath returns the drift log path, or "" when the log is disabled
func (r *Reporter) LogPath() string {
	if r.driftLog == nil {
		return ""
	}
	return r.driftLog.Path()
}

// Log appends the drift log record. It is a no-op for a clean report or when
// the log is disabled.
func (r *Reporter) Log(report *drift.Report, action string) error {
	if r.driftLog == nil || report.IsClean() {
		return nil
	}

	if err := r.driftLog.Append(report, action); err != nil {
		r.logger.WithError(err).Warn("drift log not written", "path", r.driftLog.Path())
		return err
	}

	r.logger.Debug("drift log written", "path", r.driftLog.Path(), "entries", len(report.Entries))
	return nil
}

// Render writes the console or machine-readable view of run
func (r *Reporter) Render(run *Run) error {
	if r.formatter != nil {
		return r.formatter.Format(run)
	}
	return WriteConsole(r.out, run, r.color)
}
