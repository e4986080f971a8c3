package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/report"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

// Config is the complete run configuration. It is built once at startup
// and passed explicitly to the engine.
type Config struct {
	// Output selects the stdout rendering: text, json, yaml or sarif
	Output string `yaml:"output" json:"output" validate:"oneof=text json yaml sarif"`

	// LogFile is the append-only drift log; empty disables it
	LogFile string `yaml:"log_file" json:"log_file"`

	// DryRun reports drift without backing up or reverting
	DryRun bool `yaml:"dry_run" json:"dry_run"`

	// Confirm asks an operator before reverting
	Confirm bool `yaml:"confirm" json:"confirm"`

	// FailOnDrift makes a drifted run exit non-zero even when reverted
	FailOnDrift bool `yaml:"fail_on_drift" json:"fail_on_drift"`

	// MetricsFile receives Prometheus textfile metrics; empty disables them
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`

	NoColor bool `yaml:"no_color" json:"no_color"`

	Log LogConfig `yaml:"log" json:"log"`

	// Notify is validated per channel by notify.Build so one bad channel
	// never fails the whole run
	Notify notify.Config `yaml:"notify" json:"notify" validate:"-"`

	// Source is the config file that was loaded, if any
	Source string `yaml:"-" json:"-"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level  log.Level  `yaml:"level" json:"level"`
	Format log.Format `yaml:"format" json:"format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Output:  ux.FormatText,
		LogFile: report.DefaultLogFile,
		Log: LogConfig{
			Level:  log.LevelWarn,
			Format: log.FormatText,
		},
		Notify: notify.DefaultConfig(),
	}
}

// Validate checks the run settings and the notification limits
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		return errors.NewConfigInvalidError(describe(err), err)
	}
	if err := validate.StructPartial(c.Notify, "Timeout", "Retries"); err != nil {
		return errors.NewConfigInvalidError(describe(err), err)
	}
	if c.Confirm && c.DryRun {
		return errors.NewConfigInvalidError("confirm and dry_run cannot both be set", nil)
	}

	return nil
}

// LoggerConfig returns the diagnostic logger configuration
func (c *Config) LoggerConfig() log.Config {
	cfg := log.DefaultConfig()
	if c.Log.Level == log.LevelDebug {
		cfg = log.DebugConfig()
	}
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, ", ")
}
