package report

import (
	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

// Run is everything one invocation produced. It is what the json and yaml
// outputs print.
type Run struct {
	Report        *drift.Report   `json:"report" yaml:"report"`
	Drifted       bool            `json:"drifted" yaml:"drifted"`
	Action        string          `json:"action" yaml:"action"`
	Revert        *revert.Result  `json:"revert,omitempty" yaml:"revert,omitempty"`
	LogFile       string          `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Notifications []notify.Result `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Warnings      []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewRun assembles the view of a finished run. A clean report has no action.
func NewRun(report *drift.Report, result *revert.Result) *Run {
	run := &Run{
		Report:  report,
		Drifted: !report.IsClean(),
		Revert:  result,
	}
	if run.Drifted {
		run.Action = result.Action()
	}
	return run
}

// ToSARIF exports the drift report so the sarif output can render a Run
func (r *Run) ToSARIF() *drift.SARIF {
	return r.Report.ToSARIF()
}
