package termii

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/beeseek/notify-api/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:  "key-123",
		BaseURL: srv.URL,
		Timeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	return c, &calls
}

func TestNewClient_Configuration(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{name: "missing key", cfg: Config{}, field: "TERMII_API_KEY"},
		{name: "relative base url", cfg: Config{APIKey: "k", BaseURL: "api.termii.com"}, field: "TERMII_BASE_URL"},
		{name: "long sender id", cfg: Config{APIKey: "k", SenderID: "BeeSeekAlerts"}, field: "TERMII_SENDER_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestSendSMS_Success(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sms/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+2348030000000", body["to"])
		assert.Equal(t, "BeeSeek", body["from"])
		assert.Equal(t, "hello", body["sms"])
		assert.Equal(t, "plain", body["type"])
		assert.Equal(t, "generic", body["channel"])
		assert.Equal(t, "key-123", body["api_key"])

		_, _ = w.Write([]byte(`{"message_id":"msg-9","message":"Successfully Sent","balance":120.5}`))
	})

	res := c.SendSMS(context.Background(), "+2348030000000", "hello")

	assert.True(t, res.Succeeded)
	assert.Equal(t, "msg-9", res.MessageID)
	assert.Empty(t, res.Error)
	assert.False(t, res.Simulated)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendSMS_LocalValidation(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		name    string
		to      string
		message string
		want    string
	}{
		{name: "empty phone", to: "", message: "hi", want: "Invalid phone number. Must start with +234"},
		{name: "foreign prefix", to: "+14155550100", message: "hi", want: "Invalid phone number. Must start with +234"},
		{name: "blank message", to: "+2348030000000", message: "   ", want: ErrMsgEmptyMessage},
		{name: "too long", to: "+2348030000000", message: strings.Repeat("a", MaxMessageLength+1), want: ErrMsgTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.SendSMS(context.Background(), tt.to, tt.message)
			assert.False(t, res.Succeeded)
			assert.Equal(t, tt.want, res.Error)
		})
	}
	assert.Equal(t, int32(0), calls.Load(), "invalid input must not reach the provider")
}

func TestSendSMS_ProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			want: ErrMsgUnauthorized,
		},
		{
			name: "bad request with provider message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"Sender ID not approved"}`))
			},
			want: "Sender ID not approved",
		},
		{
			name: "bad request without body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			want: ErrMsgBadRequest,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: ErrMsgNetwork,
		},
		{
			name: "ok without message id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"message":"Insufficient balance"}`))
			},
			want: "Insufficient balance",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
			},
			want: ErrMsgTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			res := c.SendSMS(context.Background(), "+2348030000000", "hello")
			assert.False(t, res.Succeeded)
			assert.Equal(t, tt.want, res.Error)
		})
	}
}

func TestSendSMS_ContextDeadline(t *testing.T) {
	c, _ := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		// The server only notices the client going away once the body is read.
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := c.SendSMS(ctx, "+2348030000000", "hello")
	assert.False(t, res.Succeeded)
	assert.Equal(t, ErrMsgTimeout, res.Error)
}

func TestCheckBalance(t *testing.T) {
	t.Run("defaults currency", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/get-balance", r.URL.Path)
			assert.Equal(t, "key-123", r.URL.Query().Get("api_key"))
			_, _ = w.Write([]byte(`{"user":"beeseek","balance":42.5}`))
		})

		bal, err := c.CheckBalance(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, 42.5, bal.Balance, 0.001)
		assert.Equal(t, "NGN", bal.Currency)

		msg, err := c.Probe(context.Background())
		require.NoError(t, err)
		assert.Contains(t, msg, "42.50 NGN")
	})

	t.Run("unauthorized", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.Probe(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnauthorized)
	})
}

func TestNullSender(t *testing.T) {
	s := NewNullSender(nil)

	res := s.SendSMS(context.Background(), "8030000000", "anything")

	assert.True(t, res.Succeeded)
	assert.True(t, res.Simulated)
	assert.Equal(t, TestModeMessageID, res.MessageID)

	msg, err := s.Probe(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "test mode")
}

func TestMessageLength_CountsUTF16Units(t *testing.T) {
	assert.Equal(t, 2, MessageLength("🚨"))
	assert.Equal(t, 5, MessageLength("hello"))
}
