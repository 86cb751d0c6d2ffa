package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/beeseek/notify-api/internal/domain/model"
)

// Response messages for the SOS endpoint.
const (
	MsgSOSSent          = "SOS alert sent successfully"
	MsgSOSFailed        = "Failed to send SOS alert"
	ErrMsgSOSProcessing = "Failed to process SOS alert"
	NoteSMSTestMode     = "SMS DISABLED - Test mode"
)

// SOSHandlers serves the SOS fan-out endpoint.
type SOSHandlers struct {
	Svc    Dispatcher
	Logger *slog.Logger
}

// sosRequest is the inbound alert payload. Identifiers and coordinates are
// accepted as JSON strings or numbers.
type sosRequest struct {
	AlertID           looseString     `json:"alertId"`
	AlertType         string          `json:"alertType"`
	PersonName        string          `json:"personName"`
	PersonID          looseString     `json:"personId"`
	Latitude          coordinate      `json:"latitude"`
	Longitude         coordinate      `json:"longitude"`
	Address           string          `json:"address"`
	TaskID            looseString     `json:"taskId"`
	EmergencyContacts []model.Contact `json:"emergencyContacts"`
	AdminEmails       []string        `json:"adminEmails"`
}

func (r *sosRequest) event() *model.AlertEvent {
	return &model.AlertEvent{
		AlertID:     strings.TrimSpace(string(r.AlertID)),
		Kind:        model.AlertKind(strings.TrimSpace(r.AlertType)),
		SubjectName: strings.TrimSpace(r.PersonName),
		PersonID:    string(r.PersonID),
		Location: model.Location{
			Latitude:  r.Latitude.ptr(),
			Longitude: r.Longitude.ptr(),
			Address:   strings.TrimSpace(r.Address),
		},
		TaskID:      string(r.TaskID),
		Contacts:    r.EmergencyContacts,
		AdminEmails: r.AdminEmails,
	}
}

type smsResult struct {
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Note      string `json:"note,omitempty"`
}

type emailResult struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type sosResponse struct {
	Success      bool          `json:"success"`
	AlertID      string        `json:"alertId"`
	SMSResults   []smsResult   `json:"smsResults"`
	EmailResults []emailResult `json:"emailResults"`
	Errors       []string      `json:"errors"`
	Message      string        `json:"message"`
}

// Send handles POST /send-sos-alert.
func (h *SOSHandlers) Send(w http.ResponseWriter, r *http.Request) {
	var req sosRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Dispatch(r.Context(), req.event())
	if err != nil {
		if statusForError(err) >= http.StatusInternalServerError {
			h.Logger.ErrorContext(r.Context(), "sos dispatch failed", "error", err)
		}
		WriteError(w, err, ErrMsgSOSProcessing)
		return
	}

	code := http.StatusOK
	if !result.Succeeded {
		code = http.StatusInternalServerError
	}
	WriteJSON(w, code, newSOSResponse(result))
}

func newSOSResponse(result *model.AggregateResult) sosResponse {
	resp := sosResponse{
		Success:      result.Succeeded,
		AlertID:      result.AlertID,
		SMSResults:   []smsResult{},
		EmailResults: []emailResult{},
		Errors:       []string{},
		Message:      MsgSOSFailed,
	}
	if result.Succeeded {
		resp.Message = MsgSOSSent
	}

	for _, o := range result.Outcomes {
		if !o.Succeeded && o.Error != "" {
			resp.Errors = append(resp.Errors, o.Channel.String()+" "+recipientLabel(o)+": "+o.Error)
		}
		switch o.Channel {
		case model.ChannelSMS:
			sr := smsResult{
				Phone:     o.Recipient,
				Name:      o.RecipientName,
				Success:   o.Succeeded,
				MessageID: o.MessageID,
				Error:     o.Error,
			}
			if o.Simulated {
				sr.Note = NoteSMSTestMode
			}
			resp.SMSResults = append(resp.SMSResults, sr)
		case model.ChannelEmail:
			resp.EmailResults = append(resp.EmailResults, emailResult{
				Email:     o.Recipient,
				Success:   o.Succeeded,
				MessageID: o.MessageID,
				Error:     o.Error,
			})
		}
	}
	return resp
}

func recipientLabel(o model.DeliveryOutcome) string {
	switch {
	case o.Recipient != "":
		return o.Recipient
	case o.RecipientName != "":
		return o.RecipientName
	default:
		return "(unknown)"
	}
}

// looseString decodes a JSON string or number into its string form.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// coordinate is an optional latitude or longitude. Null, empty and
// non-numeric strings are treated as absent, so 0 stays a valid value.
type coordinate struct {
	value float64
	set   bool
}

func (c *coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*c = coordinate{}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*c = coordinate{value: f, set: true}
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = coordinate{value: f, set: true}
	return nil
}

func (c coordinate) ptr() *float64 {
	if !c.set {
		return nil
	}
	v := c.value
	return &v
}
