package drift

import (
	"fmt"

	"github.com/felixgeelhaar/driftguard/internal/version"
)

// SARIF represents a SARIF 2.1.0 report structure
type SARIF struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single run in a SARIF report
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the tool that generated the report
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata
type SARIFDriver struct {
	Name            string `json:"name"`
	InformationURI  string `json:"informationUri,omitempty"`
	Version         string `json:"version,omitempty"`
	SemanticVersion string `json:"semanticVersion,omitempty"`
}

// SARIFResult represents a single finding
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"` // "error", "warning", "note"
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFMessage contains the finding message
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes where the finding occurred
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation provides file-level location
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
}

// SARIFArtifactLocation identifies the artifact
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// ToSARIF converts a drift report to SARIF format, one result per entry
func (r *Report) ToSARIF() *SARIF {
	sarif := &SARIF{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "driftguard",
						InformationURI:  "https://github.com/felixgeelhaar/driftguard",
						SemanticVersion: version.Version,
					},
				},
				Results: convertEntriesToSARIF(r),
			},
		},
	}
	return sarif
}

// Rule IDs used in SARIF output
const (
	RuleValueChanged = "DRIFT_VALUE_CHANGED"
	RuleKeyMissing   = "DRIFT_KEY_MISSING"
)

func convertEntriesToSARIF(r *Report) []SARIFResult {
	results := make([]SARIFResult, 0, len(r.Entries))

	for _, entry := range r.Entries {
		ruleID := RuleValueChanged
		text := fmt.Sprintf("Key %q drifted: expected %s, found %s",
			entry.Key, entry.ExpectedText(), entry.FoundText())
		if entry.Missing {
			ruleID = RuleKeyMissing
			text = fmt.Sprintf("Key %q is missing: expected %s", entry.Key, entry.ExpectedText())
		}

		result := SARIFResult{
			RuleID: ruleID,
			Level:  "error",
			Message: SARIFMessage{
				Text: text,
			},
		}

		if r.CurrentPath != "" {
			result.Locations = []SARIFLocation{
				{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{
							URI: r.CurrentPath,
						},
					},
				},
			}
		}

		results = append(results, result)
	}

	return results
}
