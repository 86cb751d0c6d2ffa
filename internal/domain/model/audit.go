package model

import "time"

// AuditActionType is the kind of delivery attempt being audited.
type AuditActionType string

const (
	AuditActionSMSSent   AuditActionType = "sms_sent"
	AuditActionEmailSent AuditActionType = "email_sent"
)

// AuditStatus is the recorded status of an attempt.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
	AuditStatusSkipped AuditStatus = "skipped"
)

// AuditTargetType identifies the audience of an attempt.
type AuditTargetType string

const (
	AuditTargetEmergencyContact AuditTargetType = "emergency_contact"
	AuditTargetAdmin            AuditTargetType = "admin"
)

// DefaultPerformedBy is recorded when the caller does not name an actor.
const DefaultPerformedBy = "system"

// AuditRecord is one row of the SOS delivery audit trail.
type AuditRecord struct {
	ID               string          `json:"id"                          db:"id"`
	SOSID            string          `json:"sos_id"                      db:"sos_id"`
	ActionType       AuditActionType `json:"action_type"                 db:"action_type"`
	ActionStatus     AuditStatus     `json:"action_status"               db:"action_status"`
	TargetType       AuditTargetType `json:"target_type"                 db:"target_type"`
	TargetIdentifier string          `json:"target_identifier,omitempty" db:"target_identifier"`
	TargetName       string          `json:"target_name,omitempty"       db:"target_name"`
	ErrorMessage     string          `json:"error_message,omitempty"     db:"error_message"`
	ResponseData     map[string]any  `json:"response_data,omitempty"     db:"response_data"`
	PerformedBy      string          `json:"performed_by"                db:"performed_by"`
	Notes            string          `json:"notes,omitempty"             db:"notes"`
	CreatedAt        time.Time       `json:"created_at"                  db:"created_at"`
}

// AuditMetadata is the dispatch-level context attached to every record.
type AuditMetadata struct {
	SOSID       string
	PerformedBy string
}

// ActionTypeFor maps a delivery channel to its audit action type.
func ActionTypeFor(ch Channel) AuditActionType {
	if ch == ChannelEmail {
		return AuditActionEmailSent
	}
	return AuditActionSMSSent
}

// TargetTypeFor maps a delivery channel to the audience it serves in the SOS flow.
func TargetTypeFor(ch Channel) AuditTargetType {
	if ch == ChannelEmail {
		return AuditTargetAdmin
	}
	return AuditTargetEmergencyContact
}
