package drift

import (
	"time"

	"github.com/felixgeelhaar/driftguard/internal/document"
)

// MissingText is how an absent current value is shown to humans
const MissingText = "MISSING"

// Entry is a single drifted top-level key
type Entry struct {
	Key      string         `json:"key" yaml:"key"`
	Expected document.Value `json:"expected" yaml:"expected"`
	Found    document.Value `json:"found" yaml:"found"`
	Missing  bool           `json:"missing" yaml:"missing"`
}

// ExpectedText renders the baseline value
func (e Entry) ExpectedText() string {
	return e.Expected.String()
}

// FoundText renders the current value, or MISSING when the key is absent
func (e Entry) FoundText() string {
	if e.Missing || e.Found.IsAbsent() {
		return MissingText
	}
	return e.Found.String()
}

// Report is the result of comparing a baseline against a current document.
// An empty Entries slice means no drift.
type Report struct {
	RunID          string    `json:"run_id" yaml:"run_id"`
	BaselinePath   string    `json:"baseline" yaml:"baseline"`
	CurrentPath    string    `json:"current" yaml:"current"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	BaselineDigest string    `json:"baseline_digest,omitempty" yaml:"baseline_digest,omitempty"`
	CurrentDigest  string    `json:"current_digest,omitempty" yaml:"current_digest,omitempty"`
	Entries        []Entry   `json:"entries" yaml:"entries"`
	Summary        Summary   `json:"summary" yaml:"summary"`
}

// Summary provides aggregate counts for a drift report
type Summary struct {
	KeysChecked int `json:"keys_checked" yaml:"keys_checked"`
	Drifted     int `json:"drifted" yaml:"drifted"`
	Changed     int `json:"changed" yaml:"changed"`
	Missing     int `json:"missing" yaml:"missing"`
}
