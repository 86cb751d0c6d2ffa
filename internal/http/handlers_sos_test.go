package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/beeseek/notify-api/internal/adapters/termii"
	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
	"github.com/beeseek/notify-api/internal/mocks"
	"github.com/beeseek/notify-api/internal/service/sosdispatch"
	"github.com/beeseek/notify-api/internal/templates"
	"github.com/beeseek/notify-api/internal/testutil"
)

func newDispatchRouter(t *testing.T, email *mocks.MockEmailSender) http.Handler {
	t.Helper()
	renderer, err := templates.NewRenderer(templates.RendererOptions{
		Now: testutil.FixedTimeFunc(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	svc, err := sosdispatch.NewService(sosdispatch.Options{
		SMS:      termii.NewNullSender(discardLogger()),
		Email:    email,
		Renderer: renderer,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	return newTestRouter(RouterServices{Dispatch: svc})
}

func TestSendSOSAlert_Delivered(t *testing.T) {
	ctrl := gomock.NewController(t)
	email := mocks.NewMockEmailSender(ctrl)
	email.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg model.EmailMessage) model.SendResult {
			assert.Equal(t, "ops@example.com", msg.To)
			assert.Equal(t, "Safety Alert: Ada - Assistance Requested", msg.Subject)
			return model.Delivered("email-1")
		})
	h := newDispatchRouter(t, email)

	rec := do(t, h, http.MethodPost, "/send-sos-alert", `{
		"alertId": "sos-1",
		"alertType": "user",
		"personName": "Ada",
		"latitude": "6.5244",
		"longitude": 3.3792,
		"emergencyContacts": [{"name": "Bola", "phone": "234 803 000 0000"}],
		"adminEmails": ["ops@example.com"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "sos-1", body["alertId"])
	assert.Equal(t, MsgSOSSent, body["message"])

	sms := body["smsResults"].([]any)
	require.Len(t, sms, 1)
	first := sms[0].(map[string]any)
	assert.Equal(t, "+2348030000000", first["phone"])
	assert.Equal(t, "Bola", first["name"])
	assert.Equal(t, true, first["success"])
	assert.Equal(t, termii.TestModeMessageID, first["messageId"])
	assert.Equal(t, NoteSMSTestMode, first["note"])

	emails := body["emailResults"].([]any)
	require.Len(t, emails, 1)
	assert.Equal(t, map[string]any{"email": "ops@example.com", "success": true, "messageId": "email-1"}, emails[0])
	assert.Empty(t, body["errors"])
}

func TestSendSOSAlert_TotalFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	email := mocks.NewMockEmailSender(ctrl)
	email.EXPECT().SendEmail(gomock.Any(), gomock.Any()).Return(model.Failed("smtp down"))
	h := newDispatchRouter(t, email)

	rec := do(t, h, http.MethodPost, "/send-sos-alert", `{
		"alertId": "sos-2", "alertType": "agent", "personName": "Ada",
		"latitude": 6.5, "longitude": 3.3, "adminEmails": ["ops@example.com"]
	}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, MsgSOSFailed, body["message"])
	assert.Empty(t, body["smsResults"])
	assert.Equal(t, []any{"email ops@example.com: smtp down"}, body["errors"])
}

func TestSendSOSAlert_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing coordinates",
			body: `{"alertId":"a","alertType":"user","personName":"Ada"}`,
			want: sosdispatch.ErrMsgMissingFields,
		},
		{
			name: "non numeric latitude",
			body: `{"alertId":"a","alertType":"user","personName":"Ada","latitude":"north","longitude":3}`,
			want: sosdispatch.ErrMsgMissingFields,
		},
		{
			name: "blank person",
			body: `{"alertId":"a","alertType":"user","personName":"  ","latitude":1,"longitude":3}`,
			want: sosdispatch.ErrMsgMissingFields,
		},
		{
			name: "unknown alert type",
			body: `{"alertId":"a","alertType":"robot","personName":"Ada","latitude":1,"longitude":3}`,
			want: sosdispatch.ErrMsgInvalidKind,
		},
		{
			name: "malformed json",
			body: `{"alertId":`,
			want: ErrMsgInvalidJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// No expectations: any send fails the test.
			h := newDispatchRouter(t, mocks.NewMockEmailSender(ctrl))

			rec := do(t, h, http.MethodPost, "/send-sos-alert", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestSendSOSAlert_RequestMapping(t *testing.T) {
	var got *model.AlertEvent
	h := newTestRouter(RouterServices{
		Dispatch: dispatchFunc(func(_ context.Context, ev *model.AlertEvent) (*model.AggregateResult, error) {
			got = ev
			return model.NewAggregateResult(ev.AlertID, nil), nil
		}),
	})

	rec := do(t, h, http.MethodPost, "/send-sos-alert", `{
		"alertId": 42, "alertType": " user ", "personName": "Ada", "personId": 7,
		"latitude": 0, "longitude": "-0.5", "address": " Yaba ", "taskId": "t-1",
		"emergencyContacts": [{"name":"Bola","phone":"+2348030000000"}],
		"adminEmails": ["ops@example.com"], "extra": true
	}`)

	// An aggregate with no outcomes is a failure.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "42", got.AlertID)
	assert.Equal(t, model.AlertKindUser, got.Kind)
	assert.Equal(t, "7", got.PersonID)
	assert.Equal(t, "t-1", got.TaskID)
	require.NotNil(t, got.Location.Latitude)
	assert.Zero(t, *got.Location.Latitude)
	require.NotNil(t, got.Location.Longitude)
	assert.InDelta(t, -0.5, *got.Location.Longitude, 1e-9)
	assert.Equal(t, "Yaba", got.Location.Address)
	assert.Equal(t, []model.Contact{{Name: "Bola", Phone: "+2348030000000"}}, got.Contacts)
	assert.Equal(t, []string{"ops@example.com"}, got.AdminEmails)
}

func TestSendSOSAlert_UnexpectedError(t *testing.T) {
	h := newTestRouter(RouterServices{
		Dispatch: dispatchFunc(func(context.Context, *model.AlertEvent) (*model.AggregateResult, error) {
			return nil, apperrors.Wrap(errors.New("boom"), apperrors.ErrCodeInternal, "dispatch crashed")
		}),
	})

	rec := do(t, h, http.MethodPost, "/send-sos-alert", `{"alertId":"a"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrMsgSOSProcessing, decode(t, rec)["error"])
}

func TestNewSOSResponse_SimulatedAndFailed(t *testing.T) {
	result := model.NewAggregateResult("sos-3", []model.DeliveryOutcome{
		model.NewOutcome(model.ChannelSMS, "", "Bola", model.Failed(sosdispatch.ErrMsgNoPhone)),
		model.NewOutcome(model.ChannelSMS, "+2348030000000", "Chi", model.SendResult{Succeeded: true, MessageID: "x", Simulated: true}),
	})

	resp := newSOSResponse(result)

	assert.True(t, resp.Success)
	require.Len(t, resp.SMSResults, 2)
	assert.Empty(t, resp.SMSResults[0].Note)
	assert.Equal(t, NoteSMSTestMode, resp.SMSResults[1].Note)
	assert.Equal(t, []string{"sms Bola: " + sosdispatch.ErrMsgNoPhone}, resp.Errors)
	assert.NotNil(t, resp.EmailResults)
}
