package termii

import (
	"context"
	"log/slog"

	"github.com/beeseek/notify-api/internal/domain/model"
)

// TestModeMessageID is the provider id reported for simulated sends.
const TestModeMessageID = "test-mock-id"

// NullSender is the SMS test-mode channel. It never contacts Termii and
// reports every send as a simulated success.
type NullSender struct {
	logger *slog.Logger
}

// NewNullSender builds a NullSender.
func NewNullSender(logger *slog.Logger) *NullSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NullSender{logger: logger.With("component", "termii", "mode", "test")}
}

// SendSMS implements core.SMSSender.
func (s *NullSender) SendSMS(ctx context.Context, to, _ string) model.SendResult {
	s.logger.InfoContext(ctx, "sms suppressed in test mode", "to", to)
	return model.SendResult{Succeeded: true, MessageID: TestModeMessageID, Simulated: true}
}

// Probe implements core.ProviderProber.
func (s *NullSender) Probe(context.Context) (string, error) {
	return "Termii test mode: SMS sending is disabled", nil
}
