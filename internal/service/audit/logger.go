// Package audit records one audit row per SOS delivery attempt. Recording is a
// non-blocking side effect: write failures are logged and counted, never returned.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/beeseek/notify-api/internal/core"
	"github.com/beeseek/notify-api/internal/domain/model"
	"github.com/beeseek/notify-api/internal/observability/metrics"
	"github.com/beeseek/notify-api/internal/observability/statsd"
)

// Notes written alongside specific records.
const (
	NoteTestMode     = "TEST MODE - SMS not actually sent"
	NoteNoContacts   = "User has no emergency contacts - alert sent to admins only"
	ReasonNoContacts = "No emergency contacts configured"
)

// DefaultWriteTimeout bounds a single audit insert.
const DefaultWriteTimeout = 5 * time.Second

// Options configures a Logger.
type Options struct {
	Repo         core.AuditRepository
	Logger       *slog.Logger
	Metrics      statsd.Sink
	WriteTimeout time.Duration
	Now          func() time.Time
	NewID        func() string
}

// Logger implements core.AuditRecorder.
type Logger struct {
	repo    core.AuditRepository
	logger  *slog.Logger
	metrics statsd.Sink
	timeout time.Duration
	now     func() time.Time
	newID   func() string
}

var _ core.AuditRecorder = (*Logger)(nil)

// NewLogger builds a Logger. A nil Repo makes every Record a no-op.
func NewLogger(opts Options) *Logger {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	l := &Logger{
		repo:    opts.Repo,
		logger:  logger.With("component", "audit"),
		metrics: opts.Metrics,
		timeout: opts.WriteTimeout,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if l.timeout <= 0 {
		l.timeout = DefaultWriteTimeout
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}
	return l
}

// Record writes the audit row for one delivery outcome.
func (l *Logger) Record(ctx context.Context, outcome model.DeliveryOutcome, meta model.AuditMetadata) {
	rec := l.base(meta)
	rec.ActionType = model.ActionTypeFor(outcome.Channel)
	rec.TargetType = model.TargetTypeFor(outcome.Channel)
	rec.TargetIdentifier = outcome.Recipient
	rec.TargetName = outcome.RecipientName

	if outcome.Succeeded {
		rec.ActionStatus = model.AuditStatusSuccess
	} else {
		rec.ActionStatus = model.AuditStatusFailed
		rec.ErrorMessage = outcome.Error
	}
	if outcome.MessageID != "" {
		rec.ResponseData["messageId"] = outcome.MessageID
	}
	if outcome.Simulated {
		rec.ResponseData["test_mode"] = true
		rec.Notes = NoteTestMode
	}

	l.write(ctx, rec)
}

// RecordSkipped writes the record marking that no SMS was sent because the
// alert carried no emergency contacts.
func (l *Logger) RecordSkipped(ctx context.Context, meta model.AuditMetadata) {
	rec := l.base(meta)
	rec.ActionType = model.AuditActionSMSSent
	rec.ActionStatus = model.AuditStatusSkipped
	rec.TargetType = model.AuditTargetEmergencyContact
	rec.ResponseData["reason"] = ReasonNoContacts
	rec.Notes = NoteNoContacts

	l.write(ctx, rec)
}

func (l *Logger) base(meta model.AuditMetadata) *model.AuditRecord {
	performedBy := meta.PerformedBy
	if performedBy == "" {
		performedBy = model.DefaultPerformedBy
	}
	return &model.AuditRecord{
		ID:           l.newID(),
		SOSID:        meta.SOSID,
		PerformedBy:  performedBy,
		ResponseData: map[string]any{},
		CreatedAt:    l.now().UTC(),
	}
}

func (l *Logger) write(ctx context.Context, rec *model.AuditRecord) {
	if l.repo == nil {
		return
	}

	// The request may already be finished; the audit row still has to land.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	err := l.insert(writeCtx, rec)
	metrics.EmitAuditWrite(l.metrics, string(rec.ActionStatus), err)
	if err != nil {
		l.logger.ErrorContext(ctx, "audit write failed",
			"sos_id", rec.SOSID,
			"action_type", rec.ActionType,
			"action_status", rec.ActionStatus,
			"target", rec.TargetIdentifier,
			"error", err,
		)
		return
	}
	l.logger.DebugContext(ctx, "audit record written",
		"sos_id", rec.SOSID, "id", rec.ID, "action_status", rec.ActionStatus)
}

// insert runs on dispatch goroutines that no HTTP middleware covers, so a
// panicking store is turned into an ordinary write failure.
func (l *Logger) insert(ctx context.Context, rec *model.AuditRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit repository panic: %v", r)
		}
	}()
	return l.repo.InsertAction(ctx, rec)
}
