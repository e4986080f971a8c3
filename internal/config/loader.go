package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

// DefaultEnvFile is the dotenv file read when --env-file is not given
const DefaultEnvFile = ".env"

// Environment variables read for notification settings
const (
	EnvEmailSender     = "EMAIL_SENDER"
	EnvEmailReceiver   = "EMAIL_RECEIVER"
	EnvEmailPassword   = "EMAIL_PASSWORD"
	EnvSMTPServer      = "SMTP_SERVER"
	EnvSMTPPort        = "SMTP_PORT"
	EnvWebhookURL      = "DRIFTGUARD_WEBHOOK_URL"
	EnvSlackWebhookURL = "DRIFTGUARD_SLACK_WEBHOOK_URL"
)

// Flags holds command-line overrides. A nil field was not set on the
// command line and leaves the lower layers alone.
type Flags struct {
	Output      *string
	LogFile     *string
	DryRun      *bool
	Confirm     *bool
	FailOnDrift *bool
	MetricsFile *string
	NoColor     *bool
	LogLevel    *string
	LogFormat   *string
}

// LoadOptions says where each configuration layer comes from
type LoadOptions struct {
	// ConfigFile is an explicit YAML config file. When empty the file is
	// discovered from WorkDir upwards, then in the user config dir.
	ConfigFile string

	// EnvFile is loaded into the process environment without overriding
	// variables that are already set. A missing file is only an error when
	// EnvFileExplicit is set.
	EnvFile         string
	EnvFileExplicit bool

	// WorkDir is where config discovery starts (default: ".")
	WorkDir string

	Flags Flags
}

// Load builds the run configuration.
//
// Precedence (highest to lowest):
// 1. Command-line flags
// 2. Environment variables (after the env file is loaded)
// 3. YAML config file
// 4. Defaults
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path := opts.ConfigFile
	if path == "" {
		workDir := opts.WorkDir
		if workDir == "" {
			workDir = "."
		}
		path = ux.DiscoverConfigFile(workDir)
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.NewConfigNotFoundError(path)
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		switch {
		case stderrors.Is(err, fs.ErrNotExist) && !opts.EnvFileExplicit:
			// the default env file is optional
		case stderrors.Is(err, fs.ErrNotExist):
			return nil, errors.NewConfigNotFoundError(envFile)
		default:
			return nil, errors.NewConfigInvalidError("env file "+envFile+" could not be parsed", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.applyFlags(opts.Flags); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile layers a YAML config file over c. ${VAR} references are expanded
// from the environment before parsing.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewConfigInvalidError("config file "+path+" could not be read", err)
	}

	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewConfigInvalidError("config file "+path+" is not valid", err)
	}

	c.Source = path
	return nil
}

// applyEnv layers notification settings from the environment over c
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}

	sender, hasSender := get(EnvEmailSender)
	receiver, hasReceiver := get(EnvEmailReceiver)
	password, hasPassword := get(EnvEmailPassword)

	if hasSender || hasReceiver || hasPassword {
		if c.Notify.Email == nil {
			c.Notify.Email = &notify.EmailConfig{}
		}
		if hasSender {
			c.Notify.Email.Sender = sender
		}
		if hasReceiver {
			c.Notify.Email.Receiver = receiver
		}
		if hasPassword {
			c.Notify.Email.Password = password
		}
	}

	if c.Notify.Email != nil {
		if host, ok := get(EnvSMTPServer); ok {
			c.Notify.Email.Host = host
		}
		if raw, ok := get(EnvSMTPPort); ok {
			port, err := strconv.Atoi(raw)
			if err != nil {
				return errors.NewConfigInvalidError(EnvSMTPPort+" must be a number, got "+strconv.Quote(raw), err)
			}
			c.Notify.Email.Port = port
		}
	}

	if url, ok := get(EnvWebhookURL); ok {
		if c.Notify.Webhook == nil {
			c.Notify.Webhook = &notify.WebhookConfig{}
		}
		c.Notify.Webhook.URL = url
	}

	if url, ok := get(EnvSlackWebhookURL); ok {
		if c.Notify.Slack == nil {
			c.Notify.Slack = &notify.SlackConfig{}
		}
		c.Notify.Slack.WebhookURL = url
	}

	return nil
}

// applyFlags layers explicitly set command-line flags over c
func (c *Config) applyFlags(f Flags) error {
	if f.Output != nil {
		c.Output = *f.Output
	}
	if f.LogFile != nil {
		c.LogFile = *f.LogFile
	}
	if f.DryRun != nil {
		c.DryRun = *f.DryRun
	}
	if f.Confirm != nil {
		c.Confirm = *f.Confirm
	}
	if f.FailOnDrift != nil {
		c.FailOnDrift = *f.FailOnDrift
	}
	if f.MetricsFile != nil {
		c.MetricsFile = *f.MetricsFile
	}
	if f.NoColor != nil {
		c.NoColor = *f.NoColor
	}

	if f.LogLevel != nil {
		var level log.Level
		if err := level.UnmarshalText([]byte(*f.LogLevel)); err != nil {
			return errors.NewConfigInvalidError("--log-level", err)
		}
		c.Log.Level = level
	}
	if f.LogFormat != nil {
		var format log.Format
		if err := format.UnmarshalText([]byte(*f.LogFormat)); err != nil {
			return errors.NewConfigInvalidError("--log-format", err)
		}
		c.Log.Format = format
	}

	return nil
}
