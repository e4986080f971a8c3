package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/felixgeelhaar/driftguard/internal/log"
)

// HTTPOptions configures the retrying client shared by HTTP channels
type HTTPOptions struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *log.Logger
}

// DefaultHTTPOptions returns the options used when none are configured
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		Timeout:      DefaultTimeout,
		Retries:      DefaultRetries,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
		Logger:       log.Discard(),
	}
}

func newHTTPClient(opts HTTPOptions) *retryablehttp.Client {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.RetryWaitMin = opts.RetryWaitMin
	client.RetryWaitMax = opts.RetryWaitMax
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = opts.Logger
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return client
}

func postJSON(ctx context.Context, client *retryablehttp.Client, url string, headers map[string]string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return client.Do(req)
}

// WebhookNotifier POSTs the JSON report and action to a URL
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *retryablehttp.Client
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(config WebhookConfig, opts HTTPOptions) *WebhookNotifier {
	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}
	return &WebhookNotifier{
		url:     config.URL,
		headers: headers,
		client:  newHTTPClient(opts),
	}
}

func (n *WebhookNotifier) Name() string { return ChannelWebhook }

// webhookPayload is the body POSTed to generic webhooks
type webhookPayload struct {
	Event    string      `json:"event"`
	Subject  string      `json:"subject"`
	Action   string      `json:"action"`
	Reverted bool        `json:"reverted"`
	Report   interface{} `json:"report"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, msg *Message) error {
	payload := webhookPayload{
		Event:    "drift_detected",
		Subject:  msg.Subject,
		Action:   msg.Action,
		Reverted: msg.Reverted,
		Report:   msg.Report,
	}

	resp, err := postJSON(ctx, n.client, n.url, n.headers, payload)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// SlackNotifier posts a text summary to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *retryablehttp.Client
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(config SlackConfig, opts HTTPOptions) *SlackNotifier {
	n := &SlackNotifier{
		webhookURL: config.WebhookURL,
		channel:    config.Channel,
		username:   "driftguard",
		iconEmoji:  ":rotating_light:",
		client:     newHTTPClient(opts),
	}
	if config.Username != "" {
		n.username = config.Username
	}
	if config.IconEmoji != "" {
		n.iconEmoji = config.IconEmoji
	}
	return n
}

func (n *SlackNotifier) Name() string { return ChannelSlack }

func (n *SlackNotifier) Notify(ctx context.Context, msg *Message) error {
	payload := map[string]interface{}{
		"text":       n.formatMessage(msg),
		"username":   n.username,
		"icon_emoji": n.iconEmoji,
	}
	if n.channel != "" {
		payload["channel"] = n.channel
	}

	resp, err := postJSON(ctx, n.client, n.webhookURL, nil, payload)
	if err != nil {
		return fmt.Errorf("Slack request failed: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack returned status %d", resp.StatusCode)
	}

	return nil
}

func (n *SlackNotifier) formatMessage(msg *Message) string {
	text := msg.Summary() + "\n"
	for _, e := range msg.Report.Entries {
		text += fmt.Sprintf("• `%s`: expected `%s`, found `%s`\n", e.Key, e.ExpectedText(), e.FoundText())
	}
	return text + "Action Taken: " + msg.Action
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
