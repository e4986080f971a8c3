package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/driftguard/internal/drift"
)

// palette styles the console view. A plain palette writes text unchanged.
type palette struct {
	plain bool

	header   lipgloss.Style
	key      lipgloss.Style
	expected lipgloss.Style
	found    lipgloss.Style
	missing  lipgloss.Style
	action   lipgloss.Style
	clean    lipgloss.Style
	muted    lipgloss.Style
	failure  lipgloss.Style
}

func newPalette(w io.Writer, color bool) palette {
	if !color {
		return palette{plain: true}
	}

	r := lipgloss.NewRenderer(w)
	return palette{
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		key:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		expected: r.NewStyle().Foreground(lipgloss.Color("10")),
		found:    r.NewStyle().Foreground(lipgloss.Color("9")),
		missing:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		action:   r.NewStyle().Bold(true),
		clean:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("241")),
		failure:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (p palette) render(style lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return style.Render(text)
}

// WriteConsole writes the human-readable view of run to w
func WriteConsole(w io.Writer, run *Run, color bool) error {
	p := newPalette(w, color)
	var b strings.Builder

	if !run.Drifted {
		b.WriteString(p.render(p.clean, "✅ No configuration drift detected.") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("\n" + p.render(p.header, "⚠️  Configuration Drift Detected:") + "\n\n")
	for _, e := range run.Report.Entries {
		writeEntry(&b, p, e)
	}

	fmt.Fprintf(&b, "%s %s\n", p.render(p.action, "Action Taken:"), run.Action)
	if run.Revert.Reverted() {
		fmt.Fprintf(&b, "%s\n", p.render(p.muted, "🛠️  Backup created: "+run.Revert.BackupPath))
	}

	for _, n := range run.Notifications {
		if n.Success {
			fmt.Fprintf(&b, "📩 Notification sent via %s\n", n.Channel)
		} else {
			fmt.Fprintf(&b, "%s\n", p.render(p.failure, fmt.Sprintf("❌ Notification via %s failed: %s", n.Channel, n.Error)))
		}
	}

	if run.LogFile != "" {
		fmt.Fprintf(&b, "📝 Drift details logged to '%s'.\n", run.LogFile)
	}

	for _, warning := range run.Warnings {
		fmt.Fprintf(&b, "%s\n", p.render(p.failure, "Warning: "+warning))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeEntry(b *strings.Builder, p palette, e drift.Entry) {
	fmt.Fprintf(b, "- %s:\n", p.render(p.key, e.Key))
	fmt.Fprintf(b, "   Expected: %s\n", p.render(p.expected, e.ExpectedText()))

	found := p.render(p.found, e.FoundText())
	if e.Missing {
		found = p.render(p.missing, drift.MissingText)
	}
	fmt.Fprintf(b, "   Found:    %s\n\n", found)
}
