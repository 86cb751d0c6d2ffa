package httpx

import (
	"log/slog"
	"net/http"

	"github.com/beeseek/notify-api/internal/domain/model"
	"github.com/beeseek/notify-api/internal/service/messaging"
)

// MessageHandlers serves the transactional email endpoints.
type MessageHandlers struct {
	Svc    MessageSender
	Logger *slog.Logger
}

type messageResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Handler returns the handler for one message kind.
func (h *MessageHandlers) Handler(kind model.EmailKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.MessageRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		res, err := h.Svc.Send(r.Context(), kind, req)
		if err != nil {
			if statusForError(err) >= http.StatusInternalServerError {
				h.Logger.ErrorContext(r.Context(), "send message failed", "kind", kind, "error", err)
			}
			WriteError(w, err, messaging.FailureMessage(kind))
			return
		}

		if !res.Succeeded {
			WriteJSON(w, http.StatusInternalServerError, messageResponse{Error: res.Error})
			return
		}
		WriteJSON(w, http.StatusOK, messageResponse{Success: true, MessageID: res.MessageID})
	}
}
