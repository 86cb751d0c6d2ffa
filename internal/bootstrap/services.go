package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/beeseek/notify-api/config"
	"github.com/beeseek/notify-api/internal/adapters/smtpmail"
	"github.com/beeseek/notify-api/internal/adapters/termii"
	"github.com/beeseek/notify-api/internal/core"
	"github.com/beeseek/notify-api/internal/data"
	"github.com/beeseek/notify-api/internal/observability/notify/pagerduty"
	"github.com/beeseek/notify-api/internal/observability/notify/slack"
	"github.com/beeseek/notify-api/internal/observability/statsd"
	"github.com/beeseek/notify-api/internal/service/audit"
	"github.com/beeseek/notify-api/internal/service/failurenotifier"
	"github.com/beeseek/notify-api/internal/service/health"
	"github.com/beeseek/notify-api/internal/service/messaging"
	"github.com/beeseek/notify-api/internal/service/sosdispatch"
	"github.com/beeseek/notify-api/internal/templates"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Dispatch  *sosdispatch.Service
	Messaging *messaging.Service
	Health    *health.Service
	// SMS is the raw SMS channel, used by the admin CLI for test sends.
	SMS SMSChannel
	// AuditRepo serves audit trail reads; it is a no-op store when audit
	// storage is disabled.
	AuditRepo     core.AuditRepository
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink     *statsd.Client
	MetricsConfig   config.ObservabilityMetricsConfig
	FailureNotifier *failurenotifier.Service
	NotifierConfig  config.ObservabilityNotificationsConfig
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // callers take the statsd.Sink interface.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// DB is nil when audit storage is disabled.
	DB *sql.DB
	// RedisClient is nil when the health cache is disabled.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// SMSChannel is what the SMS adapter provides in both live and test mode.
type SMSChannel interface {
	core.SMSSender
	core.ProviderProber
}

// channels groups the outbound provider adapters.
type channels struct {
	SMS   SMSChannel
	Email *smtpmail.Client
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:     metricsSink,
		MetricsConfig:   cfg.Metrics,
		FailureNotifier: buildFailureNotifier(obsLogger, cfg.Notifications),
		NotifierConfig:  cfg.Notifications,
	}
}

func buildFailureNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *failurenotifier.Service {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	if !cfg.HasSinks() {
		return failurenotifier.NewService(failurenotifier.Options{
			Logger: baseLogger.With("component", "failure_notifier"),
		})
	}

	sinks := make([]failurenotifier.SinkRegistration, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL:     cfg.Slack.WebhookURL,
			Channel:        cfg.Slack.Channel,
			Username:       cfg.Slack.Username,
			Timeout:        cfg.Timeout,
			RetryLimit:     cfg.RetryLimit,
			AlertURLPrefix: cfg.Slack.AlertURLPrefix,
		})
		if err != nil {
			baseLogger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{
				Name: "slack",
				Sink: client,
			})
		}
	}

	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{
				Name: "pagerduty",
				Sink: client,
			})
		}
	}

	return failurenotifier.NewService(failurenotifier.Options{
		Logger: baseLogger.With("component", "failure_notifier"),
		Sinks:  sinks,
	})
}

// buildChannels wires the SMS and email adapters. Termii test mode swaps in
// the null sender so no message leaves the process.
func buildChannels(cfg *config.AppConfig, logger *slog.Logger) (channels, error) {
	var sms SMSChannel
	if cfg.Termii.TestMode {
		logger.Warn("termii test mode enabled; SMS will not be sent")
		sms = termii.NewNullSender(logger)
	} else {
		client, err := termii.NewClient(termii.Config{
			APIKey:         cfg.Termii.APIKey,
			BaseURL:        cfg.Termii.BaseURL,
			SenderID:       cfg.Termii.SenderID,
			RequiredPrefix: cfg.Termii.RequiredPrefix,
			Timeout:        cfg.Termii.Timeout,
			Logger:         logger,
		})
		if err != nil {
			return channels{}, fmt.Errorf("build sms channel: %w", err)
		}
		sms = client
	}

	email, err := smtpmail.NewClient(smtpmail.Config{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		Username:           cfg.Email.User,
		Password:           cfg.Email.Pass,
		FromName:           cfg.Email.FromName,
		FromAddress:        cfg.Email.From,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		Timeout:            cfg.SMTP.Timeout,
		Logger:             logger,
	})
	if err != nil {
		return channels{}, fmt.Errorf("build email channel: %w", err)
	}

	return channels{SMS: sms, Email: email}, nil
}

// buildAuditRepo picks the Postgres store when audit storage is enabled and
// a database is connected.
//
//nolint:ireturn // the no-op store and the Postgres store share core.AuditRepository.
func buildAuditRepo(cfg config.AuditConfig, db *sql.DB) core.AuditRepository {
	if !cfg.Enabled || db == nil {
		return data.NoopAuditRepo{}
	}
	return data.NewAuditRepo(db)
}

// NewServices builds every service the HTTP layer and admin CLI need.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps require a config")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observability := buildObservability(logger, cfg.Observability)
	sink := observability.Sink()

	ch, err := buildChannels(cfg, logger)
	if err != nil {
		return nil, err
	}

	renderer, err := templates.NewRenderer(templates.RendererOptions{
		Links: templates.Links{
			AdminDashboardURL:  cfg.Links.AdminDashboardURL,
			AgentVerifyURLBase: cfg.Links.AgentVerifyURLBase,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	auditRepo := buildAuditRepo(cfg.Audit, deps.DB)
	recorder := audit.NewLogger(audit.Options{
		Repo:         auditRepo,
		Logger:       logger,
		Metrics:      sink,
		WriteTimeout: cfg.Audit.WriteTimeout,
	})

	dispatch, err := sosdispatch.NewService(sosdispatch.Options{
		SMS:               ch.SMS,
		Email:             ch.Email,
		Renderer:          renderer,
		Audit:             recorder,
		Notifier:          observability.FailureNotifier,
		Metrics:           sink,
		Logger:            logger,
		SendTimeout:       cfg.Dispatch.SendTimeout,
		MaxConcurrency:    cfg.Dispatch.MaxConcurrency,
		EscalationTimeout: cfg.Observability.Notifications.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build sos dispatch: %w", err)
	}

	msgs, err := messaging.NewService(messaging.Options{
		Email:    ch.Email,
		Renderer: renderer,
		Metrics:  sink,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build messaging: %w", err)
	}

	healthOpts := health.Options{
		Email:    ch.Email,
		SMS:      ch.SMS,
		CacheTTL: cfg.Redis.HealthCacheTTL,
		Metrics:  sink,
		Logger:   logger,
	}
	if deps.RedisClient != nil {
		healthOpts.Cache = data.NewRedisHealthCache(deps.RedisClient, data.DefaultHealthCacheKey)
	}

	return &ServiceContainer{
		Dispatch:      dispatch,
		Messaging:     msgs,
		Health:        health.NewService(healthOpts),
		SMS:           ch.SMS,
		AuditRepo:     auditRepo,
		Observability: observability,
	}, nil
}
