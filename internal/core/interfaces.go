// Package core declares the ports between the dispatch services and their
// adapters: channel senders, the audit store, the health cache and provider probes.
package core

import (
	"context"
	"time"

	"github.com/beeseek/notify-api/internal/domain/model"
)

// This file contains the port definitions (hexagonal architecture).
// Services depend on these interfaces; adapters and the data layer implement them.

// SMSSender sends one text message to one phone number.
// Provider-side failures are reported in the returned SendResult, never as errors.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) model.SendResult
}

// EmailSender sends one rendered email to one recipient.
// Provider-side failures are reported in the returned SendResult, never as errors.
type EmailSender interface {
	SendEmail(ctx context.Context, msg model.EmailMessage) model.SendResult
}

// AuditRepository persists the SOS delivery audit trail.
type AuditRepository interface {
	InsertAction(ctx context.Context, rec *model.AuditRecord) error
	ListBySOSID(ctx context.Context, sosID string) ([]*model.AuditRecord, error)
}

// ProviderProber checks reachability and credentials of an external provider.
type ProviderProber interface {
	// Probe returns a short human-readable status on success.
	Probe(ctx context.Context) (string, error)
}

// AuditRecorder is the best-effort audit side effect used by the dispatcher.
// Implementations must not return errors; failures are logged internally.
type AuditRecorder interface {
	Record(ctx context.Context, outcome model.DeliveryOutcome, meta model.AuditMetadata)
	RecordSkipped(ctx context.Context, meta model.AuditMetadata)
}

// HealthCache holds the last encoded provider health report.
type HealthCache interface {
	// Load returns nil when nothing is stored or the entry expired.
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, report []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
