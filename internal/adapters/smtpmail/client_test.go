package smtpmail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{Host: "smtp.example.com", Username: "alerts@beeseek.site"})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("requires host", func(t *testing.T) {
		_, err := NewClient(Config{})
		require.Error(t, err)
		assert.True(t, apperrors.IsConfiguration(err))
		assert.Equal(t, "SMTP_HOST", apperrors.GetField(err))
	})

	t.Run("from falls back to username then default", func(t *testing.T) {
		c, err := NewClient(Config{Host: "smtp.example.com", Username: "alerts@beeseek.site"})
		require.NoError(t, err)
		assert.Equal(t, "alerts@beeseek.site", c.cfg.FromAddress)
		assert.Equal(t, "BeeSeek", c.cfg.FromName)
		assert.Equal(t, 587, c.cfg.Port)

		c, err = NewClient(Config{Host: "smtp.example.com"})
		require.NoError(t, err)
		assert.Equal(t, "no-reply@beeseek.site", c.cfg.FromAddress)
	})

	t.Run("rejects invalid sender", func(t *testing.T) {
		_, err := NewClient(Config{Host: "smtp.example.com", FromAddress: "not-an-address"})
		assert.True(t, apperrors.IsConfiguration(err))
	})
}

func TestSendEmail_Success(t *testing.T) {
	c := newTestClient(t)
	var sent *gomail.Msg
	c.deliver = func(_ context.Context, msg *gomail.Msg) error {
		sent = msg
		return nil
	}

	res := c.SendEmail(context.Background(), model.EmailMessage{
		To:       "ops@example.com",
		Subject:  "Safety Alert: Ada - Assistance Requested",
		HTMLBody: "<p>help</p>",
	})

	require.True(t, res.Succeeded, res.Error)
	require.NotNil(t, sent)
	assert.Equal(t, sent.GetMessageID(), res.MessageID)
	assert.NotEmpty(t, res.MessageID)
	assert.Equal(t, []string{"Safety Alert: Ada - Assistance Requested"}, sent.GetGenHeader(gomail.HeaderSubject))

	rcpts, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com"}, rcpts)

	from := sent.GetFrom()
	require.Len(t, from, 1)
	assert.Equal(t, "BeeSeek", from[0].Name)
	assert.Equal(t, "alerts@beeseek.site", from[0].Address)
}

func TestSendEmail_Failures(t *testing.T) {
	t.Run("invalid recipient never dials", func(t *testing.T) {
		c := newTestClient(t)
		called := false
		c.deliver = func(context.Context, *gomail.Msg) error {
			called = true
			return nil
		}

		res := c.SendEmail(context.Background(), model.EmailMessage{To: "nobody"})

		assert.False(t, res.Succeeded)
		assert.Equal(t, ErrMsgInvalidRecipient, res.Error)
		assert.False(t, called)
	})

	t.Run("transport error is captured", func(t *testing.T) {
		c := newTestClient(t)
		c.deliver = func(context.Context, *gomail.Msg) error {
			return errors.New("535 authentication failed")
		}

		res := c.SendEmail(context.Background(), model.EmailMessage{To: "ops@example.com", Subject: "s", HTMLBody: "b"})

		assert.False(t, res.Succeeded)
		assert.Contains(t, res.Error, ErrMsgSendFailed)
		assert.Contains(t, res.Error, "535 authentication failed")
		assert.Empty(t, res.MessageID)
	})
}

func TestProbe(t *testing.T) {
	c := newTestClient(t)

	c.dial = func(context.Context) error { return nil }
	msg, err := c.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SMTP server smtp.example.com:587 is ready", msg)

	c.dial = func(context.Context) error { return errors.New("connection refused") }
	_, err = c.Probe(context.Background())
	assert.Error(t, err)
}

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{"ops@x.com", true},
		{"admin@beeseek.site", true},
		{"first.last@agency.gov.ng", true},
		{"", false},
		{"nobody", false},
		{"Ops <ops@x.com>", false},
		{"root@localhost", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := ValidateRecipient(tt.addr)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}
