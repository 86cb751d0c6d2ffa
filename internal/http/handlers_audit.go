package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
)

// AuditHandlers serves the SOS audit trail.
type AuditHandlers struct {
	Repo   AuditReader
	Logger *slog.Logger
}

type auditListResponse struct {
	Success bool                 `json:"success"`
	AlertID string               `json:"alertId"`
	Actions []*model.AuditRecord `json:"actions"`
}

// List handles GET /sos-alerts/{alertId}/actions.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	alertID := strings.TrimSpace(r.PathValue("alertId"))
	if alertID == "" {
		WriteFailure(w, http.StatusBadRequest, "alertId is required")
		return
	}
	if h.Repo == nil {
		WriteError(w, apperrors.Unavailable("audit storage is disabled"), "")
		return
	}

	actions, err := h.Repo.ListBySOSID(r.Context(), alertID)
	if err != nil {
		if !apperrors.IsUnavailable(err) {
			h.Logger.ErrorContext(r.Context(), "list audit actions failed", "sos_id", alertID, "error", err)
		}
		WriteError(w, err, "Failed to load audit trail")
		return
	}
	if actions == nil {
		actions = []*model.AuditRecord{}
	}
	WriteJSON(w, http.StatusOK, auditListResponse{Success: true, AlertID: alertID, Actions: actions})
}
