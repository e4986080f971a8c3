package drift

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/driftguard/internal/document"
)

// Compare reports every top-level baseline key whose value differs in current.
// Entries follow baseline key order. Keys present only in current are ignored.
func Compare(baseline, current *document.Document) *Report {
	entries := Diff(baseline.Root, current.Root)
	report := GenerateReport(entries, len(baseline.Root.Keys()))

	report.BaselinePath = baseline.Path
	report.CurrentPath = current.Path
	report.BaselineDigest = baseline.Digest
	report.CurrentDigest = current.Digest

	return report
}

// Diff compares two top-level mappings key by key
func Diff(baseline, current document.Value) []Entry {
	entries := []Entry{}

	for _, key := range baseline.Keys() {
		expected, _ := baseline.Get(key)

		found, ok := current.Get(key)
		if !ok {
			entries = append(entries, Entry{
				Key:      key,
				Expected: expected,
				Found:    document.Absent(),
				Missing:  true,
			})
			continue
		}

		if !expected.Equal(found) {
			entries = append(entries, Entry{
				Key:      key,
				Expected: expected,
				Found:    found,
			})
		}
	}

	return entries
}

// GenerateReport wraps entries in a report with a fresh run ID and timestamp
func GenerateReport(entries []Entry, keysChecked int) *Report {
	if entries == nil {
		entries = []Entry{}
	}

	summary := Summary{
		KeysChecked: keysChecked,
		Drifted:     len(entries),
	}
	for _, e := range entries {
		if e.Missing {
			summary.Missing++
		} else {
			summary.Changed++
		}
	}

	return &Report{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Entries:   entries,
		Summary:   summary,
	}
}

// IsClean returns true if no key drifted
func (r *Report) IsClean() bool {
	return len(r.Entries) == 0
}

// Keys returns the drifted keys in report order
func (r *Report) Keys() []string {
	keys := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}
