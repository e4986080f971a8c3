package notify

import (
	"time"
)

// Config holds every notification channel's settings.
// A nil channel config means the channel is not configured.
type Config struct {
	// Timeout bounds each channel's delivery (default: 30s)
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0"`

	// Retries is how often HTTP channels retry a failed delivery
	Retries int `yaml:"retries" json:"retries" validate:"gte=0,lte=10"`

	Email   *EmailConfig   `yaml:"email,omitempty" json:"email,omitempty"`
	Webhook *WebhookConfig `yaml:"webhook,omitempty" json:"webhook,omitempty"`
	Slack   *SlackConfig   `yaml:"slack,omitempty" json:"slack,omitempty"`
	Script  *ScriptConfig  `yaml:"script,omitempty" json:"script,omitempty"`
}

// EmailConfig configures SMTP delivery
type EmailConfig struct {
	Sender   string `yaml:"sender" json:"sender" validate:"required,email"`
	Receiver string `yaml:"receiver" json:"receiver" validate:"required,email"`
	Password string `yaml:"password" json:"-" validate:"required"`
	Host     string `yaml:"host" json:"host" validate:"required,hostname_rfc1123"`
	Port     int    `yaml:"port" json:"port" validate:"required,gt=0,lte=65535"`
}

// WebhookConfig configures a generic JSON webhook
type WebhookConfig struct {
	URL     string            `yaml:"url" json:"url" validate:"required,http_url"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// SlackConfig configures a Slack incoming webhook
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url" validate:"required,http_url"`
	Channel    string `yaml:"channel,omitempty" json:"channel,omitempty"`
	Username   string `yaml:"username,omitempty" json:"username,omitempty"`
	IconEmoji  string `yaml:"icon_emoji,omitempty" json:"icon_emoji,omitempty"`
}

// ScriptConfig configures a local command run on drift
type ScriptConfig struct {
	Path  string   `yaml:"path" json:"path" validate:"required"`
	Args  []string `yaml:"args,omitempty" json:"args,omitempty"`
	Shell string   `yaml:"shell,omitempty" json:"shell,omitempty"`
}

// Default SMTP settings
const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
	DefaultRetries  = 2
)

// DefaultConfig returns a config with no channels and default limits
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
		Retries: DefaultRetries,
	}
}

// Configured reports whether any channel is set
func (c Config) Configured() bool {
	return c.Email != nil || c.Webhook != nil || c.Slack != nil || c.Script != nil
}
