package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beeseek/notify-api/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#sos",
		Username:   "bot",
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.DispatchFailurePayload{
		AlertID:     "sos-1",
		Kind:        "user",
		SubjectName: "Ada",
		Attempted:   3,
		Failed:      3,
		Errors:      []string{"Invalid Termii API key", "Failed to send email: 535"},
		ErrorClass:  "all_channels_failed",
		Metadata:    map[string]string{"task_id": "task-9"},
	})

	if msg["username"] != "bot" {
		t.Fatalf("expected username to be preserved, got %v", msg["username"])
	}
	if msg["channel"] != "#sos" {
		t.Fatalf("expected channel to be set, got %v", msg["channel"])
	}

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	for _, want := range []string{
		"SOS alert undelivered", "(user)", "sos-1", "Ada", "3 of 3",
		"1. Invalid Termii API key", "all_channels_failed", "task_id: task-9", "Severity: critical",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("message text missing %q: %s", want, text)
		}
	}
}

func TestFormatAlertValue(t *testing.T) {
	tcs := []struct {
		name, id, prefix, want string
	}{
		{name: "with link", id: "sos-1", prefix: "https://admin.example/sos-alerts", want: "<https://admin.example/sos-alerts/sos-1|sos-1>"},
		{name: "invalid prefix", id: "sos-2", prefix: "not a url", want: "sos-2"},
		{name: "escaped", id: "a<b", want: "a&lt;b"},
		{name: "empty", prefix: "https://admin.example/sos-alerts", want: ""},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test", AlertURLPrefix: tc.prefix})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := client.formatAlertValue(tc.id); got != tc.want {
				t.Fatalf("formatAlertValue(%q) = %q, want %q", tc.id, got, tc.want)
			}
		})
	}
}

func TestSendDispatchFailureRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("try later"))
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.SendDispatchFailure(context.Background(), notify.DispatchFailurePayload{AlertID: "sos-1"}); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestSendDispatchFailureReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = client.SendDispatchFailure(context.Background(), notify.DispatchFailurePayload{})
	if err == nil || !strings.Contains(err.Error(), "invalid_token") {
		t.Fatalf("expected status error, got %v", err)
	}
}
