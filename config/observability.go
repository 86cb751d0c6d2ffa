package config

import (
	"strings"
	"time"
)

const (
	defaultEscalationSource = "beeseek-notify"
	defaultEscalationPart   = "sos-dispatch"

	defaultEscalationTimeout = 5 * time.Second
	// Escalation runs before the SOS response is written.
	maxEscalationTimeout = 10 * time.Second
	maxEscalationRetries = 5
)

// ObservabilityConfig holds the StatsD sink and the escalation targets for
// SOS alerts that reached nobody.
type ObservabilityConfig struct {
	Metrics       ObservabilityMetricsConfig
	Notifications ObservabilityNotificationsConfig
}

// Sanitize sanitizes both groups.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Notifications.Sanitize()
}

// ObservabilityMetricsConfig points delivery and audit counters at a StatsD
// agent. Names are emitted as <Prefix>.<metric>.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"notify"`
}

// Sanitize trims the address and strips stray dots from the prefix. Metrics
// without an address are switched off.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	c.Enabled = c.Enabled && c.StatsdAddress != ""
}

// IsEnabled reports whether a StatsD client should be built.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityNotificationsConfig selects where total dispatch failures are
// escalated. Timeout and RetryLimit apply to every sink.
type ObservabilityNotificationsConfig struct {
	Enabled    bool                        `env:"OBSERVABILITY_NOTIFICATIONS_ENABLED"     envDefault:"false"`
	Timeout    time.Duration               `env:"OBSERVABILITY_NOTIFICATIONS_TIMEOUT"     envDefault:"5s"`
	RetryLimit int                         `env:"OBSERVABILITY_NOTIFICATIONS_RETRY_LIMIT" envDefault:"3"`
	Slack      SlackNotificationConfig     `                                                                 envPrefix:"OBSERVABILITY_NOTIFICATIONS_SLACK_"`
	PagerDuty  PagerDutyNotificationConfig `                                                                 envPrefix:"OBSERVABILITY_NOTIFICATIONS_PAGERDUTY_"`
}

// Sanitize bounds the timeout to (0, 10s] and retries to [0, 5]. A sink stays
// enabled only when the group is enabled and the sink has its credential.
func (c *ObservabilityNotificationsConfig) Sanitize() {
	switch {
	case c.Timeout <= 0:
		c.Timeout = defaultEscalationTimeout
	case c.Timeout > maxEscalationTimeout:
		c.Timeout = maxEscalationTimeout
	}
	c.RetryLimit = min(max(c.RetryLimit, 0), maxEscalationRetries)

	c.Slack.sanitize()
	c.PagerDuty.sanitize()

	c.Slack.Enabled = c.Enabled && c.Slack.Enabled && c.Slack.WebhookURL != ""
	c.PagerDuty.Enabled = c.Enabled && c.PagerDuty.Enabled && c.PagerDuty.RoutingKey != ""
}

// HasSinks reports whether any escalation target survived sanitization.
func (c *ObservabilityNotificationsConfig) HasSinks() bool {
	return c.Slack.Enabled || c.PagerDuty.Enabled
}

// SlackNotificationConfig posts failed SOS alerts to an incoming webhook.
type SlackNotificationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	WebhookURL string `env:"WEBHOOK_URL"`
	Channel    string `env:"CHANNEL"`
	Username   string `env:"USERNAME"    envDefault:"beeseek-notify"`
	// AlertURLPrefix turns the alert id into a link. Empty means the admin
	// dashboard alert list, see AppConfig.Sanitize.
	AlertURLPrefix string `env:"ALERT_URL_PREFIX"`
}

func (c *SlackNotificationConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	c.AlertURLPrefix = strings.TrimSpace(c.AlertURLPrefix)
	c.Username = orDefault(c.Username, defaultEscalationSource)
}

// PagerDutyNotificationConfig raises an Events API v2 incident for a failed
// SOS alert.
type PagerDutyNotificationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	RoutingKey string `env:"ROUTING_KEY"`
	Source     string `env:"SOURCE"      envDefault:"beeseek-notify"`
	Component  string `env:"COMPONENT"   envDefault:"sos-dispatch"`
}

func (c *PagerDutyNotificationConfig) sanitize() {
	c.RoutingKey = strings.TrimSpace(c.RoutingKey)
	c.Source = orDefault(c.Source, defaultEscalationSource)
	c.Component = orDefault(c.Component, defaultEscalationPart)
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
