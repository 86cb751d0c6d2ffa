package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beeseek/notify-api/internal/data"
	"github.com/beeseek/notify-api/internal/domain/model"
)

func TestAuditList(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	var gotID string
	h := newTestRouter(RouterServices{
		Audit: auditFunc(func(_ context.Context, sosID string) ([]*model.AuditRecord, error) {
			gotID = sosID
			return []*model.AuditRecord{{
				ID:               "rec-1",
				SOSID:            sosID,
				ActionType:       model.AuditActionSMSSent,
				ActionStatus:     model.AuditStatusSkipped,
				TargetType:       model.AuditTargetEmergencyContact,
				ResponseData:     map[string]any{"reason": "No emergency contacts configured"},
				PerformedBy:      model.DefaultPerformedBy,
				CreatedAt:        created,
				TargetIdentifier: "",
			}}, nil
		}),
	})

	rec := do(t, h, http.MethodGet, "/sos-alerts/sos-1/actions", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "sos-1", gotID)
	body := decode(t, rec)
	assert.Equal(t, "sos-1", body["alertId"])
	actions := body["actions"].([]any)
	require.Len(t, actions, 1)
	first := actions[0].(map[string]any)
	assert.Equal(t, "skipped", first["action_status"])
	assert.Equal(t, "emergency_contact", first["target_type"])
}

func TestAuditList_Empty(t *testing.T) {
	h := newTestRouter(RouterServices{
		Audit: auditFunc(func(context.Context, string) ([]*model.AuditRecord, error) { return nil, nil }),
	})

	rec := do(t, h, http.MethodGet, "/sos-alerts/sos-1/actions", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["actions"])
}

func TestAuditList_Failures(t *testing.T) {
	tests := []struct {
		name     string
		repo     AuditReader
		wantCode int
		wantErr  string
	}{
		{name: "no repo", repo: nil, wantCode: http.StatusServiceUnavailable, wantErr: "audit storage is disabled"},
		{name: "storage disabled", repo: data.NoopAuditRepo{}, wantCode: http.StatusServiceUnavailable, wantErr: "audit storage is disabled"},
		{
			name: "query error",
			repo: auditFunc(func(context.Context, string) ([]*model.AuditRecord, error) {
				return nil, errors.New("connection reset")
			}),
			wantCode: http.StatusInternalServerError,
			wantErr:  "Failed to load audit trail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(RouterServices{Audit: tt.repo})

			rec := do(t, h, http.MethodGet, "/sos-alerts/sos-1/actions", "")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode(t, rec)["error"])
		})
	}
}
