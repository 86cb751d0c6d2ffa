package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrAuditNotConfigured = errors.New("audit repository not configured")
	ErrSOSIDRequired      = errors.New("sos_id is required")
)
