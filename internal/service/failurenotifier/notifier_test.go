package failurenotifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/beeseek/notify-api/internal/observability/notify"
)

func TestServiceNotifyDispatchFailure(t *testing.T) {
	ctx := context.Background()

	var (
		mu       sync.Mutex
		received []notify.DispatchFailurePayload
	)
	capture := notify.SinkFunc(func(_ context.Context, payload notify.DispatchFailurePayload) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, payload)
		return nil
	})
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{Name: "first", Sink: capture},
			{Name: "second", Sink: capture},
			{Name: "nil", Sink: nil},
		},
	})

	svc.NotifyDispatchFailure(ctx, notify.DispatchFailurePayload{AlertID: "sos-1", Attempted: 2, Failed: 2})

	if len(received) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(received))
	}
	if received[0].Severity != notify.SeverityCritical {
		t.Fatalf("expected severity to default to critical, got %s", received[0].Severity)
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(Options{})
	if svc.Enabled() {
		t.Fatal("expected Enabled() to be false when no sinks registered")
	}
	svc.NotifyDispatchFailure(context.Background(), notify.DispatchFailurePayload{})

	var nilSvc *Service
	if nilSvc.Enabled() {
		t.Fatal("nil service must be disabled")
	}
	nilSvc.NotifyDispatchFailure(context.Background(), notify.DispatchFailurePayload{})
}

func TestServiceLogsErrors(t *testing.T) {
	// Ensure we don't panic when sink returns an error.
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Sink: notify.SinkFunc(func(context.Context, notify.DispatchFailurePayload) error {
					return errors.New("boom")
				}),
			},
		},
	})
	if svc.sinks[0].Name != "sink" {
		t.Fatalf("expected default sink name, got %q", svc.sinks[0].Name)
	}

	svc.NotifyDispatchFailure(context.Background(), notify.DispatchFailurePayload{AlertID: "sos-1"})
}
