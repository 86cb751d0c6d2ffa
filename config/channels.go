package config

import (
	"strings"
	"time"
)

const maxDispatchSendTimeout = 10 * time.Second

// SMTPConfig contains the SMTP relay settings for the email channel.
type SMTPConfig struct {
	Host string `env:"HOST" envDefault:"smtp.hostinger.com"`
	Port int    `env:"PORT" envDefault:"587"`
	// InsecureSkipVerify accepts the relay's self-signed certificate.
	InsecureSkipVerify bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"true"`
	Timeout            time.Duration `env:"TIMEOUT"              envDefault:"10s"`
}

// Sanitize applies guardrails to SMTP configuration values.
func (c *SMTPConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 587
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// EmailConfig contains the sender identity for outbound email.
type EmailConfig struct {
	User     string `env:"USER"`
	Pass     string `env:"PASS"`
	FromName string `env:"FROM_NAME" envDefault:"BeeSeek"`
	// From defaults to User, then to no-reply@beeseek.site.
	From string `env:"FROM"`
}

// Sanitize applies guardrails to email configuration values.
func (c *EmailConfig) Sanitize() {
	c.User = strings.TrimSpace(c.User)
	c.From = strings.TrimSpace(c.From)
	if c.FromName = strings.TrimSpace(c.FromName); c.FromName == "" {
		c.FromName = "BeeSeek"
	}
}

// TermiiConfig contains the Termii settings for the SMS channel.
type TermiiConfig struct {
	APIKey         string        `env:"API_KEY"`
	BaseURL        string        `env:"BASE_URL"        envDefault:"https://v3.api.termii.com"`
	SenderID       string        `env:"SENDER_ID"       envDefault:"BeeSeek"`
	RequiredPrefix string        `env:"REQUIRED_PREFIX" envDefault:"+234"`
	Timeout        time.Duration `env:"TIMEOUT"         envDefault:"10s"`
	// TestMode replaces the provider with a sender that reports success
	// without sending anything.
	TestMode bool `env:"TEST_MODE" envDefault:"false"`
}

// Sanitize applies guardrails to Termii configuration values.
func (c *TermiiConfig) Sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.SenderID = strings.TrimSpace(c.SenderID)
	c.RequiredPrefix = strings.TrimSpace(c.RequiredPrefix)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// DispatchConfig tunes the SOS fan-out.
type DispatchConfig struct {
	SendTimeout    time.Duration `env:"SEND_TIMEOUT"    envDefault:"10s"`
	MaxConcurrency int           `env:"MAX_CONCURRENCY" envDefault:"8"`
}

// Sanitize clamps the per-send timeout to at most 10s.
func (c *DispatchConfig) Sanitize() {
	if c.SendTimeout <= 0 || c.SendTimeout > maxDispatchSendTimeout {
		c.SendTimeout = maxDispatchSendTimeout
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 8
	}
}

// LinksConfig holds the absolute URLs embedded in outbound messages.
type LinksConfig struct {
	AdminDashboardURL  string `env:"APP_ADMIN_DASHBOARD_URL" envDefault:"https://beeseek-admin.vercel.app/sos-alerts"`
	AgentVerifyURLBase string `env:"AGENT_VERIFY_URL_BASE"   envDefault:"https://beeseek.site/verify-agent"`
}
