package model

import "strings"

// EmailKind selects the template and subject strategy for a transactional email.
type EmailKind string

const (
	EmailKindVerification        EmailKind = "verification"
	EmailKindPasswordReset       EmailKind = "password_reset"
	EmailKindWelcome             EmailKind = "welcome"
	EmailKindNotification        EmailKind = "notification"
	EmailKindAgentMagicLink      EmailKind = "agent_magic_link"
	EmailKindAutoApprovalWarning EmailKind = "auto_approval_warning"
	EmailKindAutoApprovalUser    EmailKind = "auto_approval_user"
	EmailKindAutoApprovalAgent   EmailKind = "auto_approval_agent"
	EmailKindBookingConfirmation EmailKind = "booking_confirmation"
	EmailKindTaskCancellation    EmailKind = "task_cancellation"
	EmailKindAgentWelcomeKYC     EmailKind = "agent_welcome_kyc"
	EmailKindAccountSuspension   EmailKind = "account_suspension"
	EmailKindAccountDeletion     EmailKind = "account_deletion"
	EmailKindCourtSession        EmailKind = "court_session"
	EmailKindSOSAlert            EmailKind = "sos_alert"
)

// String returns the string representation of the email kind.
func (k EmailKind) String() string {
	return string(k)
}

// EmailMessage is a rendered email ready for a sender.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// MessageRequest carries the fields accepted by the single-purpose message
// endpoints. Each EmailKind requires a different subset.
type MessageRequest struct {
	Email            string  `json:"email"`
	Name             string  `json:"name,omitempty"`
	Code             string  `json:"code,omitempty"`
	Subject          string  `json:"subject,omitempty"`
	Message          string  `json:"message,omitempty"`
	AgentID          string  `json:"agentId,omitempty"`
	UserType         string  `json:"userType,omitempty"`
	ActivityType     string  `json:"activityType,omitempty"`
	ActivityTitle    string  `json:"activityTitle,omitempty"`
	HoursRemaining   *int    `json:"hoursRemaining,omitempty"`
	Amount           *string `json:"amount,omitempty"`
	BookingDate      string  `json:"bookingDate,omitempty"`
	BookingTime      string  `json:"bookingTime,omitempty"`
	ReferenceNumber  string  `json:"referenceNumber,omitempty"`
	Address          string  `json:"address,omitempty"`
	TaskTitle        string  `json:"taskTitle,omitempty"`
	Reason           string  `json:"reason,omitempty"`
	Duration         string  `json:"duration,omitempty"`
	CourtSessionDate string  `json:"courtSessionDate,omitempty"`
	CourtSessionTime string  `json:"courtSessionTime,omitempty"`
	ReportID         string  `json:"reportId,omitempty"`
}

// Fields flattens the request into the map consumed by validation and templates.
// String values are trimmed. Absent optional numbers are omitted rather than
// rendered as zero.
func (r *MessageRequest) Fields() map[string]any {
	fields := map[string]any{
		"email":            strings.TrimSpace(r.Email),
		"name":             strings.TrimSpace(r.Name),
		"code":             strings.TrimSpace(r.Code),
		"subject":          strings.TrimSpace(r.Subject),
		"message":          strings.TrimSpace(r.Message),
		"agentId":          strings.TrimSpace(r.AgentID),
		"userType":         strings.TrimSpace(r.UserType),
		"activityType":     strings.TrimSpace(r.ActivityType),
		"activityTitle":    strings.TrimSpace(r.ActivityTitle),
		"bookingDate":      strings.TrimSpace(r.BookingDate),
		"bookingTime":      strings.TrimSpace(r.BookingTime),
		"referenceNumber":  strings.TrimSpace(r.ReferenceNumber),
		"address":          strings.TrimSpace(r.Address),
		"taskTitle":        strings.TrimSpace(r.TaskTitle),
		"reason":           strings.TrimSpace(r.Reason),
		"duration":         strings.TrimSpace(r.Duration),
		"courtSessionDate": strings.TrimSpace(r.CourtSessionDate),
		"courtSessionTime": strings.TrimSpace(r.CourtSessionTime),
		"reportId":         strings.TrimSpace(r.ReportID),
	}
	if r.HoursRemaining != nil {
		fields["hoursRemaining"] = *r.HoursRemaining
	}
	if r.Amount != nil {
		fields["amount"] = strings.TrimSpace(*r.Amount)
	}
	return fields
}
