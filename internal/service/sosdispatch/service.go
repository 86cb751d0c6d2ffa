// Package sosdispatch fans a safety alert out to emergency contacts by SMS and
// to admins by email, then reduces the per-recipient outcomes to one result.
package sosdispatch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/beeseek/notify-api/internal/core"
	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
	"github.com/beeseek/notify-api/internal/observability/metrics"
	"github.com/beeseek/notify-api/internal/observability/notify"
	"github.com/beeseek/notify-api/internal/observability/statsd"
)

// Defaults applied by NewService.
const (
	DefaultSendTimeout       = 10 * time.Second
	DefaultMaxConcurrency    = 8
	DefaultEscalationTimeout = 10 * time.Second
)

// Failure messages for outcomes the coordinator produces without a provider result.
const (
	ErrMsgMissingFields = "Missing required fields: alertId, alertType, personName, latitude, longitude"
	ErrMsgInvalidKind   = "alertType must be 'user' or 'agent'"
	ErrMsgSendTimeout   = "Request timeout. Please try again."
	ErrMsgNoPhone       = "Emergency contact has no phone number"
	ErrMsgNoEmail       = "Admin email address is empty"
	ErrMsgRenderSMS     = "Failed to render SMS"
	ErrMsgRenderEmail   = "Failed to render email"
)

// Renderer produces the channel payloads for an alert.
type Renderer interface {
	SOSSMS(ev *model.AlertEvent) (string, error)
	SOSEmail(ev *model.AlertEvent, to string) (model.EmailMessage, error)
}

// FailureNotifier escalates alerts that reached nobody.
type FailureNotifier interface {
	NotifyDispatchFailure(ctx context.Context, payload notify.DispatchFailurePayload)
}

// Options configures a Service.
type Options struct {
	SMS      core.SMSSender
	Email    core.EmailSender
	Renderer Renderer
	Audit    core.AuditRecorder
	Notifier FailureNotifier
	Metrics  statsd.Sink
	Logger   *slog.Logger

	// SendTimeout bounds each individual send; values above 10s are clamped.
	SendTimeout       time.Duration
	MaxConcurrency    int
	EscalationTimeout time.Duration
	Now               func() time.Time
}

// Service is the fan-out coordinator. It holds no per-dispatch state and is
// safe for concurrent use.
type Service struct {
	sms      core.SMSSender
	email    core.EmailSender
	renderer Renderer
	audit    core.AuditRecorder
	notifier FailureNotifier
	metrics  statsd.Sink
	logger   *slog.Logger

	sendTimeout       time.Duration
	maxConcurrency    int
	escalationTimeout time.Duration
	now               func() time.Time
}

// NewService validates opts and builds a Service.
func NewService(opts Options) (*Service, error) {
	if opts.SMS == nil {
		return nil, apperrors.Configuration("SMS", "sms sender is required")
	}
	if opts.Email == nil {
		return nil, apperrors.Configuration("Email", "email sender is required")
	}
	if opts.Renderer == nil {
		return nil, apperrors.Configuration("Renderer", "renderer is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		sms:               opts.SMS,
		email:             opts.Email,
		renderer:          opts.Renderer,
		audit:             opts.Audit,
		notifier:          opts.Notifier,
		metrics:           opts.Metrics,
		logger:            logger.With("component", "sos_dispatch"),
		sendTimeout:       opts.SendTimeout,
		maxConcurrency:    opts.MaxConcurrency,
		escalationTimeout: opts.EscalationTimeout,
		now:               opts.Now,
	}
	if s.sendTimeout <= 0 || s.sendTimeout > DefaultSendTimeout {
		s.sendTimeout = DefaultSendTimeout
	}
	if s.maxConcurrency <= 0 {
		s.maxConcurrency = DefaultMaxConcurrency
	}
	if s.escalationTimeout <= 0 {
		s.escalationTimeout = DefaultEscalationTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Validate checks the fields every dispatch needs.
func Validate(ev *model.AlertEvent) error {
	if ev == nil ||
		strings.TrimSpace(ev.AlertID) == "" ||
		ev.Kind == "" ||
		strings.TrimSpace(ev.SubjectName) == "" ||
		ev.Location.Latitude == nil ||
		ev.Location.Longitude == nil {
		return apperrors.Validation(ErrMsgMissingFields)
	}
	if !ev.Kind.Valid() {
		return apperrors.ValidationField("alertType", ErrMsgInvalidKind)
	}
	return nil
}

// Dispatch sends the alert on every applicable channel and waits for all
// sends. Only validation failures are returned as errors; every delivery
// failure is reported in the result.
func (s *Service) Dispatch(ctx context.Context, ev *model.AlertEvent) (*model.AggregateResult, error) {
	if err := Validate(ev); err != nil {
		return nil, err
	}

	start := s.now()
	meta := model.AuditMetadata{SOSID: ev.AlertID, PerformedBy: model.DefaultPerformedBy}
	log := s.logger.With("sos_id", ev.AlertID, "kind", ev.Kind)
	log.InfoContext(ctx, "dispatching sos alert",
		"contacts", len(ev.Contacts), "admins", len(ev.AdminEmails))

	if !ev.HasContacts() {
		log.WarnContext(ctx, "no emergency contacts provided, only admins will be notified")
		if s.audit != nil {
			s.audit.RecordSkipped(ctx, meta)
		}
	}

	smsBody, smsRenderErr := s.renderSMS(ev)
	if smsRenderErr != nil {
		log.ErrorContext(ctx, "render sos sms failed", "error", smsRenderErr)
	}

	// Each send owns exactly one slot: contacts first, then admins.
	outcomes := make([]model.DeliveryOutcome, len(ev.Contacts)+len(ev.AdminEmails))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, c := range ev.Contacts {
		g.Go(func() error {
			outcomes[i] = s.deliverSMS(ctx, c, smsBody, smsRenderErr)
			s.record(ctx, outcomes[i], meta, model.AuditTargetEmergencyContact)
			return nil
		})
	}
	offset := len(ev.Contacts)
	for j, addr := range ev.AdminEmails {
		g.Go(func() error {
			outcomes[offset+j] = s.deliverEmail(ctx, ev, addr)
			s.record(ctx, outcomes[offset+j], meta, model.AuditTargetAdmin)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	result := model.NewAggregateResult(ev.AlertID, outcomes)

	metrics.EmitDispatch(s.metrics, metrics.DispatchMetric{
		Kind:      string(ev.Kind),
		Attempted: len(outcomes),
		Failed:    result.FailedCount(),
		Duration:  s.now().Sub(start),
	})
	log.InfoContext(ctx, "sos alert processed",
		"sms_success", result.ChannelSucceeded(model.ChannelSMS),
		"email_success", result.ChannelSucceeded(model.ChannelEmail),
		"overall_success", result.Succeeded,
		"failed", result.FailedCount(),
	)

	if !result.Succeeded {
		s.escalate(ctx, ev, result)
	}
	return result, nil
}

func (s *Service) renderSMS(ev *model.AlertEvent) (string, error) {
	if !ev.HasContacts() {
		return "", nil
	}
	return s.renderer.SOSSMS(ev)
}

func (s *Service) deliverSMS(ctx context.Context, c model.Contact, body string, renderErr error) model.DeliveryOutcome {
	phone := c.NormalizedPhone()
	switch {
	case phone == "":
		return model.NewOutcome(model.ChannelSMS, phone, c.Name, model.Failed(ErrMsgNoPhone))
	case renderErr != nil:
		return model.NewOutcome(model.ChannelSMS, phone, c.Name, model.Failed(ErrMsgRenderSMS))
	}
	res := s.send(ctx, model.ChannelSMS, func(ctx context.Context) model.SendResult {
		return s.sms.SendSMS(ctx, phone, body)
	})
	return model.NewOutcome(model.ChannelSMS, phone, c.Name, res)
}

func (s *Service) deliverEmail(ctx context.Context, ev *model.AlertEvent, addr string) model.DeliveryOutcome {
	to := strings.TrimSpace(addr)
	if to == "" {
		return model.NewOutcome(model.ChannelEmail, to, "", model.Failed(ErrMsgNoEmail))
	}
	msg, err := s.renderer.SOSEmail(ev, to)
	if err != nil {
		s.logger.ErrorContext(ctx, "render sos email failed", "sos_id", ev.AlertID, "to", to, "error", err)
		return model.NewOutcome(model.ChannelEmail, to, "", model.Failed(ErrMsgRenderEmail))
	}
	res := s.send(ctx, model.ChannelEmail, func(ctx context.Context) model.SendResult {
		return s.email.SendEmail(ctx, msg)
	})
	return model.NewOutcome(model.ChannelEmail, to, "", res)
}

// send runs one provider call under its own deadline. The call is detached
// from request cancellation so a client disconnect does not abort an alert
// already in flight. A sender that overruns the deadline yields a timeout
// failure; its late result is discarded.
func (s *Service) send(ctx context.Context, ch model.Channel, fn func(context.Context) model.SendResult) model.SendResult {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan model.SendResult, 1)
	go func() { done <- fn(sendCtx) }()

	var res model.SendResult
	select {
	case res = <-done:
	case <-sendCtx.Done():
		res = model.Failed(ErrMsgSendTimeout)
	}

	metrics.EmitDeliveryAttempt(s.metrics, metrics.AttemptMetric{
		Channel:   ch.String(),
		Succeeded: res.Succeeded,
		Simulated: res.Simulated,
		Duration:  time.Since(start),
	})
	return res
}

func (s *Service) record(ctx context.Context, o model.DeliveryOutcome, meta model.AuditMetadata, target model.AuditTargetType) {
	if !o.Succeeded {
		s.logger.WarnContext(ctx, "sos delivery failed",
			"sos_id", meta.SOSID, "channel", o.Channel, "target", target, "recipient", o.Recipient, "error", o.Error)
	}
	if s.audit != nil {
		s.audit.Record(ctx, o, meta)
	}
}

func (s *Service) escalate(ctx context.Context, ev *model.AlertEvent, result *model.AggregateResult) {
	if s.notifier == nil {
		return
	}

	class := "all_channels_failed"
	if len(result.Outcomes) == 0 {
		class = "no_recipients"
	}

	seen := make(map[string]struct{})
	var errs []string
	for _, o := range result.Outcomes {
		if o.Error == "" {
			continue
		}
		if _, ok := seen[o.Error]; ok {
			continue
		}
		seen[o.Error] = struct{}{}
		errs = append(errs, o.Error)
	}

	payload := notify.DispatchFailurePayload{
		AlertID:     ev.AlertID,
		Kind:        string(ev.Kind),
		SubjectName: ev.SubjectName,
		Attempted:   len(result.Outcomes),
		Failed:      result.FailedCount(),
		Errors:      errs,
		ErrorClass:  class,
		Severity:    notify.SeverityCritical,
		OccurredAt:  s.now(),
		Metadata:    map[string]string{},
	}
	if ev.TaskID != "" {
		payload.Metadata["task_id"] = ev.TaskID
	}
	if ev.PersonID != "" {
		payload.Metadata["person_id"] = ev.PersonID
	}
	if link := ev.Location.MapsLink(); link != "" {
		payload.Metadata["map"] = link
	}

	escCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.escalationTimeout)
	defer cancel()
	s.notifier.NotifyDispatchFailure(escCtx, payload)
}
