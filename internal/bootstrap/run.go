package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/beeseek/notify-api/config"
)

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a signal
// arrives, ctx ends or the server fails. It then drains in-flight requests
// and releases the shared clients.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	runErr := waitForShutdown(ctx, shutdownConfig{
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		timeout:    cfg.Config.HTTP.ShutdownTimeout,
		logger:     logger,
	})

	if closeErr := closeResources(cfg); closeErr != nil {
		logger.Error("release resources failed", "error", closeErr)
		runErr = errors.Join(runErr, closeErr)
	}
	return runErr
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(ctx context.Context, cfg shutdownConfig) error {
	select {
	case sig := <-cfg.quit:
		cfg.logger.Info("shutting down services...", "signal", sig.String())
		return gracefulStop(cfg)
	case <-ctx.Done():
		cfg.logger.Info("shutting down services...", "reason", ctx.Err())
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains the HTTP server. The drain runs on a fresh context so
// a cancelled parent does not cut in-flight SOS dispatches short.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	return ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  cfg.httpServer,
		Timeout: cfg.timeout,
		Logger:  cfg.logger,
	})
}

// closeResources releases the metrics socket and the store clients.
func closeResources(cfg *ServiceOrchestrationConfig) error {
	var closers []namedCloser
	if cfg.Services != nil && cfg.Services.Observability.MetricsSink != nil {
		closers = append(closers, namedCloser{"statsd", cfg.Services.Observability.MetricsSink})
	}
	if cfg.RedisClient != nil {
		closers = append(closers, namedCloser{"redis", cfg.RedisClient})
	}
	if cfg.DB != nil {
		closers = append(closers, namedCloser{"database", cfg.DB})
	}
	return closeAll(closers)
}

type namedCloser struct {
	name   string
	closer io.Closer
}

func closeAll(closers []namedCloser) error {
	var errs []error
	for _, c := range closers {
		if err := c.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}
