// Package health probes the email and SMS providers and caches the report.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/beeseek/notify-api/internal/core"
	"github.com/beeseek/notify-api/internal/observability/metrics"
	"github.com/beeseek/notify-api/internal/observability/statsd"
)

// DefaultProbeTimeout bounds each provider probe.
const DefaultProbeTimeout = 10 * time.Second

// ProviderStatus is the outcome of probing one provider.
type ProviderStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the combined provider health.
type Report struct {
	Success   bool           `json:"success"`
	Email     ProviderStatus `json:"email"`
	SMS       ProviderStatus `json:"sms"`
	CheckedAt time.Time      `json:"checkedAt"`
	Cached    bool           `json:"cached,omitempty"`
}

// Options configures a Service.
type Options struct {
	Email core.ProviderProber
	SMS   core.ProviderProber
	// Cache is optional; without it every Check probes the providers.
	Cache        core.HealthCache
	CacheTTL     time.Duration
	ProbeTimeout time.Duration
	Metrics      statsd.Sink
	Logger       *slog.Logger
	Now          func() time.Time
}

// Service runs provider probes.
type Service struct {
	email   core.ProviderProber
	sms     core.ProviderProber
	cache   core.HealthCache
	ttl     time.Duration
	timeout time.Duration
	metrics statsd.Sink
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds a Service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		email:   opts.Email,
		sms:     opts.SMS,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		timeout: opts.ProbeTimeout,
		metrics: opts.Metrics,
		logger:  logger.With("component", "health"),
		now:     opts.Now,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultProbeTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Check returns the cached report when one is fresh, otherwise probes both
// providers concurrently.
func (s *Service) Check(ctx context.Context) Report {
	if rep, ok := s.cached(ctx); ok {
		return rep
	}

	var rep Report
	var g errgroup.Group
	g.Go(func() error {
		rep.Email = s.probe(ctx, "email", s.email)
		return nil
	})
	g.Go(func() error {
		rep.SMS = s.probe(ctx, "sms", s.sms)
		return nil
	})
	_ = g.Wait()

	rep.Success = rep.Email.Success && rep.SMS.Success
	rep.CheckedAt = s.now().UTC()
	s.store(ctx, rep)
	return rep
}

// Refresh drops the cached report and probes again.
func (s *Service) Refresh(ctx context.Context) Report {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "health cache delete failed", "error", err)
		}
	}
	return s.Check(ctx)
}

func (s *Service) probe(ctx context.Context, name string, p core.ProviderProber) ProviderStatus {
	if p == nil {
		return ProviderStatus{Error: name + " provider not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	msg, err := p.Probe(ctx)
	metrics.EmitHealthProbe(s.metrics, name, err, time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "provider probe failed", "provider", name, "error", err)
		return ProviderStatus{Error: err.Error()}
	}
	return ProviderStatus{Success: true, Message: msg}
}

func (s *Service) cached(ctx context.Context) (Report, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return Report{}, false
	}
	raw, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "health cache read failed", "error", err)
		return Report{}, false
	}
	if raw == nil {
		return Report{}, false
	}
	var rep Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		s.logger.WarnContext(ctx, "health cache entry is corrupt", "error", err)
		return Report{}, false
	}
	rep.Cached = true
	return rep, true
}

func (s *Service) store(ctx context.Context, rep Report) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return
	}
	if err := s.cache.Store(ctx, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "health cache write failed", "error", err)
	}
}
