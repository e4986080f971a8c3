package notify

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
)

// Build creates a notifier for every configured channel. A channel whose
// settings are incomplete or invalid is skipped and reported as a NOTIFY-002
// error in skipped; it never prevents the others from being built.
func Build(config Config, logger *log.Logger) (notifiers []Notifier, skipped []error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	opts := DefaultHTTPOptions()
	if config.Timeout > 0 {
		opts.Timeout = config.Timeout
	}
	opts.Retries = config.Retries
	if logger != nil {
		opts.Logger = logger
	}

	check := func(channel string, settings interface{}) bool {
		if err := validate.Struct(settings); err != nil {
			skipped = append(skipped, errors.NewNotifyConfigError(channel, describeValidation(err)))
			return false
		}
		return true
	}

	if config.Email != nil {
		email := *config.Email
		if email.Host == "" {
			email.Host = DefaultSMTPHost
		}
		if email.Port == 0 {
			email.Port = DefaultSMTPPort
		}
		if check(ChannelEmail, email) {
			notifiers = append(notifiers, NewEmailNotifier(email))
		}
	}

	if config.Webhook != nil && check(ChannelWebhook, *config.Webhook) {
		notifiers = append(notifiers, NewWebhookNotifier(*config.Webhook, opts))
	}

	if config.Slack != nil && check(ChannelSlack, *config.Slack) {
		notifiers = append(notifiers, NewSlackNotifier(*config.Slack, opts))
	}

	if config.Script != nil && check(ChannelScript, *config.Script) {
		notifiers = append(notifiers, NewScriptNotifier(*config.Script))
	}

	return notifiers, skipped
}

// describeValidation turns validator errors into "field: rule" pairs
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			parts = append(parts, fmt.Sprintf("%s is not set", strings.ToLower(fe.Field())))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is not a valid %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
