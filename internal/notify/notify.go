package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/revert"
)

// DefaultTimeout bounds a single channel's delivery
const DefaultTimeout = 30 * time.Second

// Channel names
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
	ChannelSlack   = "slack"
	ChannelScript  = "script"
)

// Notifier delivers a drift message to one alert channel
type Notifier interface {
	// Name returns the channel name
	Name() string

	// Notify delivers msg, honouring ctx's deadline
	Notify(ctx context.Context, msg *Message) error
}

// Message is the notification view of a drift report
type Message struct {
	Subject  string         `json:"subject"`
	Body     string         `json:"body"`
	Action   string         `json:"action"`
	Reverted bool           `json:"reverted"`
	Report   *drift.Report  `json:"report"`
	Revert   *revert.Result `json:"revert,omitempty"`
}

// NewMessage builds the message sent to every channel for a drifted run
func NewMessage(report *drift.Report, result *revert.Result) *Message {
	msg := &Message{
		Action:   result.Action(),
		Reverted: result.Reverted(),
		Report:   report,
		Revert:   result,
	}

	if msg.Reverted {
		msg.Subject = "Configuration Drift Detected & Auto-Reverted"
	} else {
		msg.Subject = "Configuration Drift Detected"
	}

	var b strings.Builder
	if msg.Reverted {
		b.WriteString("Configuration drift has been detected and auto-reverted:\n\n")
	} else {
		b.WriteString("Configuration drift has been detected:\n\n")
	}
	fmt.Fprintf(&b, "Baseline: %s | Current: %s\n\n", report.BaselinePath, report.CurrentPath)
	for _, e := range report.Entries {
		fmt.Fprintf(&b, "- %s:\n", e.Key)
		fmt.Fprintf(&b, "   Expected: %s\n", e.ExpectedText())
		fmt.Fprintf(&b, "   Found:    %s\n\n", e.FoundText())
	}
	fmt.Fprintf(&b, "Action Taken: %s\n", msg.Action)
	msg.Body = b.String()

	return msg
}

// Summary is a one-line description used by chat channels
func (m *Message) Summary() string {
	icon := "⚠️"
	if m.Reverted {
		icon = "✅"
	}
	return fmt.Sprintf("%s %s: %d key(s) drifted in %s (%s)",
		icon, m.Subject, len(m.Report.Entries), m.Report.CurrentPath, strings.Join(m.Report.Keys(), ", "))
}

// Result contains the outcome of one channel's delivery
type Result struct {
	Channel   string        `json:"channel"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}
