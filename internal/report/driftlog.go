package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

// DefaultLogFile is the drift log written next to where the tool runs
const DefaultLogFile = "drift.log"

// timestampLayout matches "%Y-%m-%d %H:%M:%S"
const timestampLayout = "2006-01-02 15:04:05"

// separator closes every record
var separator = strings.Repeat("=", 50)

// DriftLog appends one human-readable record per drifted run
type DriftLog struct {
	path   string
	format string

	// mu serialises appends from one process
	mu sync.Mutex

	now func() time.Time
}

// NewDriftLog creates a drift log at path. format selects how entries are
// written: json and yaml embed the serialized report, anything else writes
// one Expected/Found block per key.
func NewDriftLog(path, format string) *DriftLog {
	return &DriftLog{
		path:   path,
		format: format,
		now:    time.Now,
	}
}

// Path returns the log file path
func (l *DriftLog) Path() string {
	return l.path
}

// Append writes a record for report. The record is written with a single
// call on an O_APPEND descriptor and synced before returning.
func (l *DriftLog) Append(report *drift.Report, action string) error {
	record, err := FormatRecord(report, action, l.format, l.now())
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to render drift log record", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewFileWriteError(l.path, err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.NewFileWriteError(l.path, err)
	}

	if _, err := f.Write(record); err != nil {
		f.Close()
		return errors.NewFileWriteError(l.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.NewFileWriteError(l.path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewFileWriteError(l.path, err)
	}

	return nil
}

// FormatRecord renders one drift log record
func FormatRecord(report *drift.Report, action, format string, ts time.Time) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "\n[%s] Configuration Drift Detected!\n", ts.Format(timestampLayout))
	fmt.Fprintf(&b, "Baseline: %s | Current: %s\n", report.BaselinePath, report.CurrentPath)

	switch format {
	case ux.FormatJSON:
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(report); err != nil {
			return nil, err
		}
	case ux.FormatYAML:
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		b.WriteString("\n")
	default:
		for _, e := range report.Entries {
			fmt.Fprintf(&b, "- %s:\n", e.Key)
			fmt.Fprintf(&b, "   Expected: %s\n", e.ExpectedText())
			fmt.Fprintf(&b, "   Found:    %s\n", e.FoundText())
		}
	}

	fmt.Fprintf(&b, "Action Taken: %s\n", action)
	b.WriteString(separator + "\n")

	return b.Bytes(), nil
}
