package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

// Run results recorded on driftguard_runs_total
const (
	ResultClean   = "clean"
	ResultDrifted = "drifted"
	ResultError   = "error"
)

// Metrics holds all Prometheus metrics for driftguard
type Metrics struct {
	// Run metrics
	Runs             *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
	LastRunDrifted   prometheus.Gauge

	// Comparison metrics
	KeysChecked prometheus.Gauge
	DriftedKeys *prometheus.CounterVec

	// Revert metrics
	Reverts        *prometheus.CounterVec
	RevertDuration prometheus.Histogram

	// Notification metrics
	Notifications        *prometheus.CounterVec
	NotificationDuration *prometheus.HistogramVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// Run metrics
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftguard_runs_total",
				Help: "Total number of drift checks by result",
			},
			[]string{"result"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "driftguard_run_duration_seconds",
				Help:    "Drift check duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 60.0},
			},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "driftguard_last_run_timestamp_seconds",
				Help: "Unix time of the last drift check",
			},
		),
		LastRunDrifted: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "driftguard_last_run_drifted_keys",
				Help: "Number of drifted keys found by the last drift check",
			},
		),

		// Comparison metrics
		KeysChecked: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "driftguard_keys_checked",
				Help: "Number of baseline keys compared by the last drift check",
			},
		),
		DriftedKeys: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftguard_drifted_keys_total",
				Help: "Total number of drifted keys by kind",
			},
			[]string{"kind"},
		),

		// Revert metrics
		Reverts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftguard_reverts_total",
				Help: "Total number of revert attempts by outcome",
			},
			[]string{"outcome"},
		),
		RevertDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "driftguard_revert_duration_seconds",
				Help:    "Backup, restore and verify duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),

		// Notification metrics
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftguard_notifications_total",
				Help: "Total number of notification deliveries",
			},
			[]string{"channel", "success"},
		),
		NotificationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "driftguard_notification_duration_seconds",
				Help:    "Notification delivery duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"channel"},
		),

		// Error metrics
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftguard_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code"},
		),
	}
}

// ObserveReport records the comparison result
func (m *Metrics) ObserveReport(report *drift.Report) {
	m.KeysChecked.Set(float64(report.Summary.KeysChecked))
	m.LastRunDrifted.Set(float64(report.Summary.Drifted))
	m.DriftedKeys.WithLabelValues("changed").Add(float64(report.Summary.Changed))
	m.DriftedKeys.WithLabelValues("missing").Add(float64(report.Summary.Missing))
}

// ObserveRevert records a revert attempt. A nil result records nothing.
func (m *Metrics) ObserveRevert(result *revert.Result) {
	if result == nil {
		return
	}
	m.Reverts.WithLabelValues(string(result.Outcome)).Inc()
	if result.Outcome == revert.OutcomeReverted || result.Outcome == revert.OutcomeFailed {
		m.RevertDuration.Observe(result.Duration.Seconds())
	}
}

// ObserveNotifications records each channel's delivery
func (m *Metrics) ObserveNotifications(results []notify.Result) {
	for _, r := range results {
		success := "false"
		if r.Success {
			success = "true"
		}
		m.Notifications.WithLabelValues(r.Channel, success).Inc()
		m.NotificationDuration.WithLabelValues(r.Channel).Observe(r.Duration.Seconds())
	}
}

// ObserveError records err by its error code, or "unknown" for uncoded errors
func (m *Metrics) ObserveError(err error) {
	if err == nil {
		return
	}
	code := string(errors.CodeOf(err))
	if code == "" {
		code = "unknown"
	}
	m.Errors.WithLabelValues(code).Inc()
}

// ObserveRun records the end of a run
func (m *Metrics) ObserveRun(result string, duration time.Duration, finished time.Time) {
	m.Runs.WithLabelValues(result).Inc()
	m.RunDuration.Observe(duration.Seconds())
	m.LastRunTimestamp.Set(float64(finished.Unix()))
}
