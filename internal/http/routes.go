// Package httpx exposes the notification dispatch service over HTTP: the SOS
// fan-out endpoint, the transactional email endpoints, provider health and
// the audit trail read API.
package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/beeseek/notify-api/internal/domain/model"
	"github.com/beeseek/notify-api/internal/service/health"
)

// Dispatcher fans an SOS alert out to every channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *model.AlertEvent) (*model.AggregateResult, error)
}

// MessageSender sends a single transactional email.
type MessageSender interface {
	Send(ctx context.Context, kind model.EmailKind, req model.MessageRequest) (model.SendResult, error)
}

// HealthChecker reports provider health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
	Refresh(ctx context.Context) health.Report
}

// AuditReader lists the audit trail of one alert.
type AuditReader interface {
	ListBySOSID(ctx context.Context, sosID string) ([]*model.AuditRecord, error)
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Dispatch  Dispatcher
	Messaging MessageSender
	Health    HealthChecker
	// Optional: audit trail reads answer 503 when nil.
	Audit AuditReader
	// CORSAllowedOrigins defaults to any origin when empty.
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

// messageRoutes maps each transactional endpoint to the kind it sends.
var messageRoutes = []struct { //nolint:gochecknoglobals // static route table
	path string
	kind model.EmailKind
}{
	{"/send-verification", model.EmailKindVerification},
	{"/send-reset", model.EmailKindPasswordReset},
	{"/send-welcome", model.EmailKindWelcome},
	{"/send-notification", model.EmailKindNotification},
	{"/send-agent-magic-link", model.EmailKindAgentMagicLink},
	{"/send-auto-approval-warning", model.EmailKindAutoApprovalWarning},
	{"/send-auto-approval-user", model.EmailKindAutoApprovalUser},
	{"/send-auto-approval-agent", model.EmailKindAutoApprovalAgent},
	{"/send-booking-confirmation", model.EmailKindBookingConfirmation},
	{"/send-task-cancellation", model.EmailKindTaskCancellation},
	{"/send-agent-welcome-kyc", model.EmailKindAgentWelcomeKYC},
	{"/send-account-suspension", model.EmailKindAccountSuspension},
	{"/send-account-deletion", model.EmailKindAccountDeletion},
	{"/send-court-session", model.EmailKindCourtSession},
}

// NewRouter creates the route mux wrapped in CORS. Callers add Recover and
// Logging outside it.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	mux := http.NewServeMux()

	sos := &SOSHandlers{Svc: services.Dispatch, Logger: logger}
	mux.HandleFunc("POST /send-sos-alert", sos.Send)

	msgs := &MessageHandlers{Svc: services.Messaging, Logger: logger}
	for _, route := range messageRoutes {
		mux.HandleFunc("POST "+route.path, msgs.Handler(route.kind))
	}

	hh := &HealthHandlers{Svc: services.Health}
	mux.HandleFunc("GET /health", hh.Providers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	audit := &AuditHandlers{Repo: services.Audit, Logger: logger}
	mux.HandleFunc("GET /sos-alerts/{alertId}/actions", audit.List)

	// Anything the patterns above do not match, including a known path with
	// the wrong method, falls through to the catch-all.
	mux.HandleFunc("/", notFoundHandler)

	return CORS(services.CORSAllowedOrigins)(mux)
}

// ErrMsgRouteNotFound is the body error for unknown routes.
const ErrMsgRouteNotFound = "Route not found"

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	WriteFailure(w, http.StatusNotFound, ErrMsgRouteNotFound)
}
