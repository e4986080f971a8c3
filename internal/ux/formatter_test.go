package ux

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/driftguard/internal/document"
	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/errors"
)

type testData struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"json format", "json", false},
		{"yaml format", "yaml", false},
		{"text format", "text", false},
		{"sarif format", "sarif", false},
		{"empty format defaults to text", "", false},
		{"unknown format", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFormatter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("json", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	data := testData{Name: "test", Value: 42}
	if err := formatter.Format(data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"name": "test"`) {
		t.Errorf("JSON output missing expected field: %s", output)
	}
	if !strings.Contains(output, `"value": 42`) {
		t.Errorf("JSON output missing expected field: %s", output)
	}
}

func TestJSONFormatterCompact(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("json", &FormatterOptions{
		Writer:  &buf,
		Compact: true,
	})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	data := testData{Name: "test", Value: 42}
	if err := formatter.Format(data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	// Compact JSON should be single line (no indentation)
	if strings.Count(output, "\n") > 1 {
		t.Errorf("Compact JSON should be single line, got: %s", output)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("yaml", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	data := testData{Name: "test", Value: 42}
	if err := formatter.Format(data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "name: test") {
		t.Errorf("YAML output missing expected field: %s", output)
	}
	if !strings.Contains(output, "value: 42") {
		t.Errorf("YAML output missing expected field: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		data    interface{}
		want    string
		wantErr bool
	}{
		{
			name: "string data",
			data: "hello world",
			want: "hello world",
		},
		{
			name:    "complex type without String method",
			data:    testData{Name: "test", Value: 42},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter, err := NewFormatter("text", &FormatterOptions{Writer: &buf})
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}

			err = formatter.Format(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Format() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				output := strings.TrimSpace(buf.String())
				if output != tt.want {
					t.Errorf("Format() output = %q, want %q", output, tt.want)
				}
			}
		})
	}
}

func TestNewFormatterUnknownFormatIsUsageError(t *testing.T) {
	_, err := NewFormatter("xml", nil)
	if !errors.HasCode(err, errors.ErrCodeUnknownFormat) {
		t.Errorf("expected USAGE-001, got %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range append([]string{""}, Formats...) {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) error = %v", format, err)
		}
	}
	if err := ValidateFormat("toml"); !errors.HasCode(err, errors.ErrCodeUnknownFormat) {
		t.Errorf("ValidateFormat(toml) = %v, want USAGE-001", err)
	}
}

func TestIsMachineReadable(t *testing.T) {
	tests := map[string]bool{
		FormatText:  false,
		"":          false,
		FormatJSON:  true,
		FormatYAML:  true,
		FormatSARIF: true,
	}
	for format, want := range tests {
		if got := IsMachineReadable(format); got != want {
			t.Errorf("IsMachineReadable(%q) = %v, want %v", format, got, want)
		}
	}
}

func sampleReport() *drift.Report {
	report := drift.GenerateReport([]drift.Entry{
		{
			Key:      "server",
			Expected: document.Map(document.KV("port", document.Int(8080))),
			Found:    document.Map(document.KV("port", document.Int(9090))),
		},
	}, 1)
	report.BaselinePath = "baseline.yaml"
	report.CurrentPath = "current.yaml"
	return report
}

func TestSARIFFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter(FormatSARIF, &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(sampleReport()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var sarif drift.SARIF
	if err := json.Unmarshal(buf.Bytes(), &sarif); err != nil {
		t.Fatalf("output is not SARIF JSON: %v\n%s", err, buf.String())
	}
	if sarif.Version != "2.1.0" || len(sarif.Runs) != 1 || len(sarif.Runs[0].Results) != 1 {
		t.Errorf("unexpected SARIF: %s", buf.String())
	}

	if err := formatter.Format(testData{Name: "x"}); err == nil {
		t.Error("expected error for data without SARIF support")
	}
}

func TestJSONFormatterReport(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter(FormatJSON, &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(sampleReport()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{`"key": "server"`, `"port": 8080`, `"port": 9090`, `"missing": false`} {
		if !strings.Contains(output, want) {
			t.Errorf("JSON output missing %s:\n%s", want, output)
		}
	}
}

func TestYAMLFormatterReport(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter(FormatYAML, &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(sampleReport()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"key: server", "port: 8080", "port: 9090", "baseline: baseline.yaml"} {
		if !strings.Contains(output, want) {
			t.Errorf("YAML output missing %s:\n%s", want, output)
		}
	}
}
