// Package messaging sends the single-purpose transactional emails
// (verification codes, booking confirmations, suspensions and so on).
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/beeseek/notify-api/internal/core"
	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
	"github.com/beeseek/notify-api/internal/observability/metrics"
	"github.com/beeseek/notify-api/internal/observability/statsd"
)

// ErrMsgInvalidEmail is returned when the recipient is present but malformed.
const ErrMsgInvalidEmail = "Invalid email address"

// Renderer renders a transactional email from request fields.
type Renderer interface {
	Email(kind model.EmailKind, to string, fields map[string]any) (model.EmailMessage, error)
}

type field struct {
	key   string
	label string
	rule  string
}

type kindRules struct {
	fields  []field
	failure string
}

var (
	fEmail          = field{"email", "email", "required,email"}
	fCode           = field{"code", "code", "required"}
	fName           = field{"name", "name", "required"}
	fSubject        = field{"subject", "subject", "required"}
	fMessage        = field{"message", "message", "required"}
	fAgentID        = field{"agentId", "agent ID", "required"}
	fActivityTitle  = field{"activityTitle", "activity title", "required"}
	fHoursRemaining = field{"hoursRemaining", "hours remaining", "required,min=0"}
	fAmount         = field{"amount", "amount", "required"}
	fUserType       = field{"userType", "user type", "required"}
	fTaskTitle      = field{"taskTitle", "task title", "required"}
	fReason         = field{"reason", "reason", "required"}
	fCourtDate      = field{"courtSessionDate", "court session date", "required"}
	fCourtTime      = field{"courtSessionTime", "court session time", "required"}
	fReportID       = field{"reportId", "report ID", "required"}
)

var rules = map[model.EmailKind]kindRules{
	model.EmailKindVerification:        {[]field{fEmail, fCode}, "Failed to send verification email"},
	model.EmailKindPasswordReset:       {[]field{fEmail, fCode}, "Failed to send reset email"},
	model.EmailKindWelcome:             {[]field{fEmail, fName}, "Failed to send welcome email"},
	model.EmailKindNotification:        {[]field{fEmail, fSubject, fMessage}, "Failed to send notification email"},
	model.EmailKindAgentMagicLink:      {[]field{fEmail, fAgentID}, "Failed to send magic link"},
	model.EmailKindAutoApprovalWarning: {[]field{fEmail, fName, fActivityTitle, fHoursRemaining}, "Failed to send auto-approval warning"},
	model.EmailKindAutoApprovalUser:    {[]field{fEmail, fName, fActivityTitle, fAmount}, "Failed to send auto-approval email"},
	model.EmailKindAutoApprovalAgent:   {[]field{fEmail, fName, fActivityTitle, fAmount}, "Failed to send auto-approval email"},
	model.EmailKindBookingConfirmation: {[]field{fEmail, fName, fUserType, fActivityTitle}, "Failed to send booking confirmation"},
	model.EmailKindTaskCancellation:    {[]field{fEmail, fName, fTaskTitle}, "Failed to send cancellation email"},
	model.EmailKindAgentWelcomeKYC:     {[]field{fEmail, fName}, "Failed to send KYC welcome email"},
	model.EmailKindAccountSuspension:   {[]field{fEmail, fName, fUserType, fReason}, "Failed to send suspension email"},
	model.EmailKindAccountDeletion:     {[]field{fEmail, fName, fUserType}, "Failed to send deletion email"},
	model.EmailKindCourtSession: {
		[]field{fEmail, fName, fTaskTitle, fCourtDate, fCourtTime, fReportID},
		"Failed to send court session email",
	},
}

// Kinds lists every kind the service can send, in a stable order.
func Kinds() []model.EmailKind {
	out := make([]model.EmailKind, 0, len(rules))
	for k := range rules {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// FailureMessage is the caller-facing error for a failed send of kind.
func FailureMessage(kind model.EmailKind) string {
	if r, ok := rules[kind]; ok {
		return r.failure
	}
	return "Failed to send email"
}

// Options configures a Service.
type Options struct {
	Email    core.EmailSender
	Renderer Renderer
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// Service validates a request, renders it and hands it to the email channel.
type Service struct {
	email    core.EmailSender
	renderer Renderer
	validate *validator.Validate
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewService builds a Service.
func NewService(opts Options) (*Service, error) {
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
	return &Service{
		email:    opts.Email,
		renderer: opts.Renderer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  opts.Metrics,
		logger:   logger.With("component", "messaging"),
	}, nil
}

// Send validates req for kind and sends it. Validation problems are returned
// as errors; delivery failures come back in the SendResult.
func (s *Service) Send(ctx context.Context, kind model.EmailKind, req model.MessageRequest) (model.SendResult, error) {
	kr, ok := rules[kind]
	if !ok {
		return model.SendResult{}, apperrors.Validationf("unsupported message kind %q", kind)
	}

	fields := req.Fields()
	if err := s.check(kr, validationFields(req, fields)); err != nil {
		return model.SendResult{}, err
	}

	to := strings.TrimSpace(req.Email)
	msg, err := s.renderer.Email(kind, to, fields)
	if err != nil {
		s.logger.ErrorContext(ctx, "render email failed", "kind", kind, "error", err)
		return model.SendResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, kr.failure)
	}

	res := s.email.SendEmail(ctx, msg)
	metrics.EmitMessageSend(s.metrics, kind.String(), res.Succeeded)
	if !res.Succeeded {
		s.logger.WarnContext(ctx, "transactional email failed", "kind", kind, "to", to, "error", res.Error)
		return res, nil
	}
	s.logger.InfoContext(ctx, "transactional email sent", "kind", kind, "to", to, "message_id", res.MessageID)
	return res, nil
}

func (s *Service) check(kr kindRules, fields map[string]any) error {
	ruleMap := make(map[string]any, len(kr.fields))
	for _, f := range kr.fields {
		ruleMap[f.key] = f.rule
	}
	failures := s.validate.ValidateMap(fields, ruleMap)
	if len(failures) == 0 {
		return nil
	}

	var missing []string
	for _, f := range kr.fields {
		err, failed := failures[f.key]
		if !failed {
			continue
		}
		if isRequiredFailure(err) {
			missing = append(missing, f.label)
			continue
		}
		if f.key == fEmail.key {
			return apperrors.ValidationField(f.key, ErrMsgInvalidEmail)
		}
		return apperrors.ValidationField(f.key, "Invalid "+f.label)
	}
	if len(missing) > 0 {
		return apperrors.Validation(RequiredMessage(requiredLabels(kr)))
	}
	return apperrors.Validation("invalid request")
}

// validationFields keeps hoursRemaining as a pointer so that an explicit 0
// passes the required rule.
func validationFields(req model.MessageRequest, fields map[string]any) map[string]any {
	if req.HoursRemaining == nil {
		return fields
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	out["hoursRemaining"] = req.HoursRemaining
	return out
}

func isRequiredFailure(err any) bool {
	e, ok := err.(error)
	if !ok {
		return false
	}
	var verrs validator.ValidationErrors
	if errors.As(e, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return true
			}
		}
	}
	return false
}

func requiredLabels(kr kindRules) []string {
	out := make([]string, len(kr.fields))
	for i, f := range kr.fields {
		out[i] = f.label
	}
	return out
}

// RequiredMessage renders "Email and code are required" style messages.
func RequiredMessage(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	parts := slices.Clone(labels)
	parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	switch len(parts) {
	case 1:
		return parts[0] + " is required"
	case 2:
		return parts[0] + " and " + parts[1] + " are required"
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1] + " are required"
	}
}
