package config

import (
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - channels.go: SMTP, Termii and dispatch configuration
//   - database.go: Postgres, audit and Redis configuration
//   - http.go: HTTP server configuration
//   - observability.go: metrics and failure notifications
type AppConfig struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Audit    AuditConfig `envPrefix:"AUDIT_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Delivery channels
	SMTP     SMTPConfig     `envPrefix:"SMTP_"`
	Email    EmailConfig    `envPrefix:"EMAIL_"`
	Termii   TermiiConfig   `envPrefix:"TERMII_"`
	Dispatch DispatchConfig `envPrefix:"DISPATCH_"`
	Links    LinksConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}

	c.HTTP.Sanitize()
	c.Audit.Sanitize()
	c.Redis.Sanitize()
	c.SMTP.Sanitize()
	c.Email.Sanitize()
	c.Termii.Sanitize()
	c.Dispatch.Sanitize()
	c.Observability.Sanitize()

	slack := &c.Observability.Notifications.Slack
	if slack.AlertURLPrefix == "" {
		slack.AlertURLPrefix = strings.TrimSpace(c.Links.AdminDashboardURL)
	}
}
