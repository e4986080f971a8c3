package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/felixgeelhaar/driftguard/internal/document"
	"github.com/felixgeelhaar/driftguard/internal/drift"
	dgerrors "github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	// Verify all metrics are initialized
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"Runs", m.Runs},
		{"RunDuration", m.RunDuration},
		{"LastRunTimestamp", m.LastRunTimestamp},
		{"LastRunDrifted", m.LastRunDrifted},
		{"KeysChecked", m.KeysChecked},
		{"DriftedKeys", m.DriftedKeys},
		{"Reverts", m.Reverts},
		{"RevertDuration", m.RevertDuration},
		{"Notifications", m.Notifications},
		{"NotificationDuration", m.NotificationDuration},
		{"Errors", m.Errors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestObserveReport(t *testing.T) {
	_, m := NewRegistry()

	report := drift.GenerateReport([]drift.Entry{
		{Key: "a", Expected: document.Int(1), Found: document.Int(2)},
		{Key: "b", Expected: document.Int(1), Found: document.Absent(), Missing: true},
		{Key: "c", Expected: document.Int(1), Found: document.Absent(), Missing: true},
	}, 5)

	m.ObserveReport(report)

	if got := testutil.ToFloat64(m.KeysChecked); got != 5 {
		t.Errorf("KeysChecked = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.LastRunDrifted); got != 3 {
		t.Errorf("LastRunDrifted = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.DriftedKeys.WithLabelValues("changed")); got != 1 {
		t.Errorf("DriftedKeys changed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DriftedKeys.WithLabelValues("missing")); got != 2 {
		t.Errorf("DriftedKeys missing = %v, want 2", got)
	}
}

func TestObserveRevert(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveRevert(nil)
	m.ObserveRevert(&revert.Result{Outcome: revert.OutcomeReverted, Duration: 3 * time.Millisecond})
	m.ObserveRevert(&revert.Result{Outcome: revert.OutcomeDryRun})
	m.ObserveRevert(&revert.Result{Outcome: revert.OutcomeFailed, Duration: time.Millisecond})

	for outcome, want := range map[string]float64{"reverted": 1, "dry_run": 1, "failed": 1, "declined": 0} {
		if got := testutil.ToFloat64(m.Reverts.WithLabelValues(outcome)); got != want {
			t.Errorf("Reverts %s = %v, want %v", outcome, got, want)
		}
	}

	// only attempts that touched files are timed
	if got := testutil.CollectAndCount(m.RevertDuration); got != 1 {
		t.Errorf("RevertDuration series = %d, want 1", got)
	}
}

func TestObserveNotifications(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveNotifications([]notify.Result{
		{Channel: "email", Success: true, Duration: 200 * time.Millisecond},
		{Channel: "slack", Success: false, Duration: time.Second},
		{Channel: "slack", Success: false, Duration: time.Second},
	})

	if got := testutil.ToFloat64(m.Notifications.WithLabelValues("email", "true")); got != 1 {
		t.Errorf("Notifications email = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Notifications.WithLabelValues("slack", "false")); got != 2 {
		t.Errorf("Notifications slack failures = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.NotificationDuration); got != 2 {
		t.Errorf("NotificationDuration series = %d, want 2", got)
	}
}

func TestObserveError(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveError(nil)
	m.ObserveError(dgerrors.NewBackupError("a.yaml.backup", errors.New("disk full")))
	m.ObserveError(errors.New("plain"))

	if got := testutil.ToFloat64(m.Errors.WithLabelValues("REVERT-001")); got != 1 {
		t.Errorf("Errors REVERT-001 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues("unknown")); got != 1 {
		t.Errorf("Errors unknown = %v, want 1", got)
	}
}

func TestObserveRun(t *testing.T) {
	_, m := NewRegistry()

	finished := time.Unix(1700000000, 0)
	m.ObserveRun(ResultDrifted, 250*time.Millisecond, finished)
	m.ObserveRun(ResultClean, 10*time.Millisecond, finished.Add(time.Minute))

	if got := testutil.ToFloat64(m.Runs.WithLabelValues(ResultDrifted)); got != 1 {
		t.Errorf("Runs drifted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LastRunTimestamp); got != 1700000060 {
		t.Errorf("LastRunTimestamp = %v, want 1700000060", got)
	}

	expected := `
# HELP driftguard_runs_total Total number of drift checks by result
# TYPE driftguard_runs_total counter
driftguard_runs_total{result="clean"} 1
driftguard_runs_total{result="drifted"} 1
`
	if err := testutil.CollectAndCompare(m.Runs, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected runs output: %v", err)
	}
}
