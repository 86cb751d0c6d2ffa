package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beeseek/notify-api/internal/domain/model"
	"github.com/beeseek/notify-api/internal/testutil"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererOptions{
		Links: Links{
			AdminDashboardURL:  "https://admin.example.com/sos-alerts",
			AgentVerifyURLBase: "https://beeseek.site/verify-agent",
		},
		Location: time.FixedZone("WAT", 3600),
		Now:      testutil.FixedTimeFunc(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return r
}

func TestNewRenderer_EveryKindHasTemplate(t *testing.T) {
	r := newTestRenderer(t)
	for kind := range kinds {
		assert.NotNil(t, r.email.Lookup(string(kind)), kind)
	}
	assert.NotNil(t, r.email.Lookup(string(model.EmailKindSOSAlert)))
}

func TestRenderer_SOSSMS(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("with address", func(t *testing.T) {
		ev := testutil.NewAlertEvent().WithSubject("Ada").WithAddress("Yaba, Lagos").Build()
		got, err := r.SOSSMS(&ev)
		require.NoError(t, err)

		assert.Contains(t, got, "🚨 SAFETY ALERT")
		assert.Contains(t, got, "Ada has requested emergency assistance via BeeSeek.")
		assert.Contains(t, got, "Location: Yaba, Lagos")
		assert.Contains(t, got, "View map: https://www.google.com/maps?q=6.5244,3.3792")
		assert.True(t, len(got) <= 612, "sms must fit provider limit")
	})

	t.Run("without address", func(t *testing.T) {
		ev := testutil.NewAlertEvent().WithAddress("").Build()
		got, err := r.SOSSMS(&ev)
		require.NoError(t, err)
		assert.Contains(t, got, "Location: See map")
	})
}

func TestRenderer_SOSEmail(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("lists notified contacts", func(t *testing.T) {
		ev := testutil.NewAlertEvent().
			WithSubject("Ada").
			WithTask("task-9").
			WithContacts(testutil.Contact("Bola", "+2348030000000")).
			Build()

		msg, err := r.SOSEmail(&ev, "ops@example.com")
		require.NoError(t, err)

		assert.Equal(t, "ops@example.com", msg.To)
		assert.Equal(t, "Safety Alert: Ada - Assistance Requested", msg.Subject)
		assert.Contains(t, msg.HTMLBody, "User Emergency")
		assert.Contains(t, msg.HTMLBody, "task-9")
		// html/template escapes "+" in text nodes.
		assert.Contains(t, msg.HTMLBody, "Bola - &#43;2348030000000")
		assert.Contains(t, msg.HTMLBody, "https://admin.example.com/sos-alerts")
		assert.Contains(t, msg.HTMLBody, "01/03/2025, 10:30:00 WAT")
		assert.NotContains(t, msg.HTMLBody, "No emergency contacts")
	})

	t.Run("flags missing contacts", func(t *testing.T) {
		ev := testutil.NewAlertEvent().WithKind(model.AlertKindAgent).WithAddress("").Build()

		msg, err := r.SOSEmail(&ev, "ops@example.com")
		require.NoError(t, err)

		assert.Contains(t, msg.HTMLBody, "Agent Emergency")
		assert.Contains(t, msg.HTMLBody, "No emergency contacts")
		assert.Contains(t, msg.HTMLBody, "Unknown")
	})

	t.Run("escapes caller input", func(t *testing.T) {
		ev := testutil.NewAlertEvent().WithSubject("<script>x</script>").Build()

		msg, err := r.SOSEmail(&ev, "ops@example.com")
		require.NoError(t, err)
		assert.NotContains(t, msg.HTMLBody, "<script>")
	})
}

func TestRenderer_Email(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name        string
		kind        model.EmailKind
		req         model.MessageRequest
		wantSubject string
		wantBody    []string
	}{
		{
			name:        "verification",
			kind:        model.EmailKindVerification,
			req:         model.MessageRequest{Email: "a@b.com", Code: "482913"},
			wantSubject: "Verify Your BeeSeek Account",
			wantBody:    []string{"482913", "expires in 10 minutes"},
		},
		{
			name:        "notification uses caller subject",
			kind:        model.EmailKindNotification,
			req:         model.MessageRequest{Email: "a@b.com", Subject: "Wallet funded", Message: "Your wallet was credited."},
			wantSubject: "Wallet funded",
			wantBody:    []string{"Wallet funded", "Your wallet was credited."},
		},
		{
			name:        "magic link",
			kind:        model.EmailKindAgentMagicLink,
			req:         model.MessageRequest{Email: "a@b.com", AgentID: "ag-1"},
			wantSubject: "Verify Your Agent Account",
			wantBody:    []string{"https://beeseek.site/verify-agent?agentId=ag-1"},
		},
		{
			name: "auto approval warning",
			kind: model.EmailKindAutoApprovalWarning,
			req: model.MessageRequest{
				Email: "a@b.com", Name: "Ada", ActivityTitle: "Deep clean", HoursRemaining: testutil.IntPtr(4),
			},
			wantSubject: "Payment Release Reminder - Deep clean",
			wantBody:    []string{"Hello Ada", "4 hours", "Your task"},
		},
		{
			name: "booking confirmation for agent",
			kind: model.EmailKindBookingConfirmation,
			req: model.MessageRequest{
				Email: "a@b.com", Name: "Ada", UserType: "agent", ActivityTitle: "Move house", ReferenceNumber: "BK-77",
			},
			wantSubject: "Booking Confirmed - Move house",
			wantBody:    []string{"You have a new task booking.", "Booking Reference: BK-77"},
		},
		{
			name: "permanent suspension",
			kind: model.EmailKindAccountSuspension,
			req: model.MessageRequest{
				Email: "a@b.com", Name: "Ada", UserType: "client", Reason: "Fraud", Duration: "permanently",
			},
			wantSubject: "Account Suspended",
			wantBody:    []string{"permanently suspended", "Reason for suspension: Fraud", "You cannot book or access services"},
		},
		{
			name: "court session",
			kind: model.EmailKindCourtSession,
			req: model.MessageRequest{
				Email: "a@b.com", Name: "Ada", TaskTitle: "Paint fence",
				CourtSessionDate: "2025-03-04", CourtSessionTime: "10:00", ReportID: "RPT-1",
			},
			wantSubject: "Court Session Scheduled - Action Required",
			wantBody:    []string{"RPT-1", "2025-03-04", "Paint fence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := r.Email(tt.kind, tt.req.Email, tt.req.Fields())
			require.NoError(t, err)
			assert.Equal(t, tt.req.Email, msg.To)
			assert.Equal(t, tt.wantSubject, msg.Subject)
			for _, want := range tt.wantBody {
				assert.Contains(t, msg.HTMLBody, want)
			}
		})
	}
}

func TestRenderer_EmailUnknownKind(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Email(model.EmailKind("fax"), "a@b.com", nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
