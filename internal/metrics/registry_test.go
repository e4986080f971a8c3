package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/felixgeelhaar/driftguard/internal/errors"
)

func TestNewRegistry(t *testing.T) {
	reg, m := NewRegistry()

	if reg == nil {
		t.Fatal("expected registry, got nil")
	}

	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	// Verify metrics are registered with the custom registry
	m.Runs.WithLabelValues(ResultClean).Inc()

	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metricFamilies {
		if mf.GetName() == "driftguard_runs_total" {
			found = true
			break
		}
	}

	if !found {
		t.Error("metrics not registered with custom registry")
	}
}

func TestMultipleRegistries(t *testing.T) {
	reg1, m1 := NewRegistry()
	reg2, _ := NewRegistry()

	m1.Runs.WithLabelValues(ResultDrifted).Inc()

	if got := testutil.ToFloat64(m1.Runs.WithLabelValues(ResultDrifted)); got != 1 {
		t.Errorf("registry 1 runs = %v, want 1", got)
	}

	mfs, err := reg2.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "driftguard_runs_total" {
			t.Error("registry 2 should not see registry 1's runs")
		}
	}

	if _, err := reg1.Gather(); err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	reg, m := NewRegistry()

	m.ObserveRun(ResultDrifted, 120*time.Millisecond, time.Unix(1700000000, 0))
	m.Reverts.WithLabelValues("reverted").Inc()

	path := filepath.Join(t.TempDir(), "textfile", "driftguard.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	body := string(data)

	for _, want := range []string{
		`driftguard_runs_total{result="drifted"} 1`,
		`driftguard_reverts_total{outcome="reverted"} 1`,
		"driftguard_last_run_timestamp_seconds 1.7e+09",
		"driftguard_run_duration_seconds_bucket{le=",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("textfile missing %q:\n%s", want, body)
		}
	}

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the textfile, found %d entries", len(entries))
	}
}

func TestWriteTextfileFailure(t *testing.T) {
	reg, _ := NewRegistry()

	// a file where the parent directory should be
	parent := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(parent, nil, 0600); err != nil {
		t.Fatal(err)
	}

	err := WriteTextfile(filepath.Join(parent, "driftguard.prom"), reg)
	if !errors.HasCode(err, errors.ErrCodeFileWriteFailed) {
		t.Errorf("expected IO-003, got %v", err)
	}
}
