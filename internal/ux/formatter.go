package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/driftguard/internal/drift"
	"github.com/felixgeelhaar/driftguard/internal/errors"
)

// Output format names accepted by --output
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatSARIF = "sarif"
)

// Formats lists every supported output format
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatSARIF}

// ValidateFormat returns a USAGE-001 error for an unsupported format
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatSARIF, "":
		return nil
	default:
		return errors.NewUnknownFormatError(format)
	}
}

// IsMachineReadable reports whether format is meant for other programs
func IsMachineReadable(format string) bool {
	return format == FormatJSON || format == FormatYAML || format == FormatSARIF
}

// Formatter defines the interface for output formatters.
// This enables consistent output formatting across all commands.
type Formatter interface {
	// Format writes the given data to the output writer
	Format(data interface{}) error
}

// FormatterOptions contains configuration for formatters
type FormatterOptions struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// NoColor disables colored output for text formatters
	NoColor bool
	// Compact enables compact output (no indentation for JSON/YAML)
	Compact bool
}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{Writer: os.Stdout}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case FormatJSON:
		return &JSONFormatter{opts: opts}, nil
	case FormatYAML:
		return &YAMLFormatter{opts: opts}, nil
	case FormatSARIF:
		return &SARIFFormatter{opts: opts}, nil
	case FormatText, "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, errors.NewUnknownFormatError(format)
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts *FormatterOptions
}

// Format writes data as JSON
func (f *JSONFormatter) Format(data interface{}) error {
	return encodeJSON(f.opts, data)
}

func encodeJSON(opts *FormatterOptions, data interface{}) error {
	encoder := json.NewEncoder(opts.Writer)
	encoder.SetEscapeHTML(false)
	if !opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// SARIFProvider is implemented by values that can be exported as SARIF
type SARIFProvider interface {
	ToSARIF() *drift.SARIF
}

// SARIFFormatter formats output as a SARIF 2.1.0 log
type SARIFFormatter struct {
	opts *FormatterOptions
}

// Format writes data as SARIF JSON. data must implement SARIFProvider.
func (f *SARIFFormatter) Format(data interface{}) error {
	provider, ok := data.(SARIFProvider)
	if !ok {
		return fmt.Errorf("sarif formatter cannot render %T", data)
	}
	return encodeJSON(f.opts, provider.ToSARIF())
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	opts *FormatterOptions
}

// Format writes data as YAML
func (f *YAMLFormatter) Format(data interface{}) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}

// TextFormatter formats output as human-readable text
type TextFormatter struct {
	opts *FormatterOptions
}

// Format writes data as formatted text
// Note: TextFormatter requires data to implement a String() method
// or be a primitive type (string, int, bool, etc.)
func (f *TextFormatter) Format(data interface{}) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(f.opts.Writer, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.opts.Writer, v.String())
		return err
	default:
		return fmt.Errorf("text formatter requires data to implement String() method or be a primitive type")
	}
}

// Compile-time verification that formatters implement Formatter
var _ Formatter = (*JSONFormatter)(nil)
var _ Formatter = (*YAMLFormatter)(nil)
var _ Formatter = (*TextFormatter)(nil)
var _ Formatter = (*SARIFFormatter)(nil)
