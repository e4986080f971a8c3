package notify

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/driftguard/internal/document"
	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

func testReport() *drift.Report {
	report := drift.GenerateReport([]drift.Entry{
		{
			Key:      "server",
			Expected: document.Map(document.KV("port", document.Int(8080))),
			Found:    document.Map(document.KV("port", document.Int(9090))),
		},
		{
			Key:      "name",
			Expected: document.String("api"),
			Found:    document.Absent(),
			Missing:  true,
		},
	}, 2)
	report.BaselinePath = "baseline.yaml"
	report.CurrentPath = "current.yaml"
	return report
}

func revertedResult() *revert.Result {
	return &revert.Result{
		Outcome:      revert.OutcomeReverted,
		BaselinePath: "baseline.yaml",
		CurrentPath:  "current.yaml",
		BackupPath:   "current.yaml.backup",
		Verified:     true,
	}
}

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name        string
		result      *revert.Result
		wantSubject string
		wantIntro   string
		wantAction  string
	}{
		{
			name:        "reverted",
			result:      revertedResult(),
			wantSubject: "Configuration Drift Detected & Auto-Reverted",
			wantIntro:   "detected and auto-reverted",
			wantAction:  "Auto-reverted current.yaml from baseline.yaml (Backup saved as current.yaml.backup)",
		},
		{
			name:        "dry run",
			result:      &revert.Result{Outcome: revert.OutcomeDryRun},
			wantSubject: "Configuration Drift Detected",
			wantIntro:   "has been detected:",
			wantAction:  "Dry run: no changes made",
		},
		{
			name:        "failed",
			result:      &revert.Result{Outcome: revert.OutcomeFailed},
			wantSubject: "Configuration Drift Detected",
			wantIntro:   "has been detected:",
			wantAction:  "Failed to auto-revert configuration.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewMessage(testReport(), tt.result)

			if msg.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", msg.Subject, tt.wantSubject)
			}
			if msg.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", msg.Action, tt.wantAction)
			}
			if !strings.Contains(msg.Body, tt.wantIntro) {
				t.Errorf("Body missing %q:\n%s", tt.wantIntro, msg.Body)
			}

			for _, want := range []string{
				"- server:",
				`   Expected: {"port":8080}`,
				`   Found:    {"port":9090}`,
				"- name:",
				`   Expected: "api"`,
				"   Found:    MISSING",
				"Action Taken: " + tt.wantAction,
			} {
				if !strings.Contains(msg.Body, want) {
					t.Errorf("Body missing %q:\n%s", want, msg.Body)
				}
			}
		})
	}
}

func TestMessageSummary(t *testing.T) {
	msg := NewMessage(testReport(), revertedResult())

	summary := msg.Summary()
	for _, want := range []string{"2 key(s)", "current.yaml", "server, name"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() = %q, missing %q", summary, want)
		}
	}
}

func TestConfigConfigured(t *testing.T) {
	if DefaultConfig().Configured() {
		t.Error("default config should have no channels")
	}
	cfg := DefaultConfig()
	cfg.Slack = &SlackConfig{WebhookURL: "https://hooks.slack.com/x"}
	if !cfg.Configured() {
		t.Error("config with slack should be configured")
	}
}
