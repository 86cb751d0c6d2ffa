// Package notify defines the escalation payload used when an SOS alert could
// not be delivered on any channel, and the sinks that consume it.
package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
)

// DispatchFailurePayload captures what escalation sinks receive when every
// delivery attempt for an alert failed.
type DispatchFailurePayload struct {
	AlertID     string
	Kind        string
	SubjectName string
	Attempted   int
	Failed      int
	Errors      []string
	ErrorClass  string
	Severity    string
	OccurredAt  time.Time
	Metadata    map[string]string
}

// Sink describes a destination capable of consuming dispatch failure notifications.
type Sink interface {
	SendDispatchFailure(ctx context.Context, payload DispatchFailurePayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload DispatchFailurePayload) error

// SendDispatchFailure implements the Sink interface.
func (f SinkFunc) SendDispatchFailure(ctx context.Context, payload DispatchFailurePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
