package config

import (
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"notify"`
	Password string `env:"PASSWORD"                envDefault:"notify"`
	Name     string `env:"NAME"                    envDefault:"notify"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// AuditConfig controls the SOS delivery audit trail.
type AuditConfig struct {
	// Enabled selects Postgres storage; when false records are discarded
	// and no database connection is opened.
	Enabled      bool          `env:"ENABLED"       envDefault:"true"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to audit configuration values.
func (c *AuditConfig) Sanitize() {
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
}

// RedisConfig contains Redis configuration for the provider health cache.
type RedisConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
	// HealthCacheTTL is how long a provider health report is reused.
	HealthCacheTTL time.Duration `env:"HEALTH_CACHE_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to Redis configuration values.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.URI == "" {
		c.Enabled = false
	}
	if c.HealthCacheTTL <= 0 {
		c.HealthCacheTTL = 30 * time.Second
	}
}
