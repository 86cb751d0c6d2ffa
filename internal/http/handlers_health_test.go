package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beeseek/notify-api/internal/service/health"
)

func TestHealthHandlerGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %q", ct)
	}

	body := rec.Body.String()
	if body != `{"status":"ok"}` {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHealthHandlerHEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %q", ct)
	}

	if bodyLen := rec.Body.Len(); bodyLen != 0 {
		t.Fatalf("expected empty body for HEAD request, got %d bytes", bodyLen)
	}
}

func TestHealthProviders(t *testing.T) {
	healthy := health.Report{
		Success: true,
		Email:   health.ProviderStatus{Success: true, Message: "SMTP server smtp.example.com:587 is ready"},
		SMS:     health.ProviderStatus{Success: true, Message: "Termii is ready"},
	}
	degraded := health.Report{
		Email: health.ProviderStatus{Success: true, Message: "ok"},
		SMS:   health.ProviderStatus{Error: "Invalid Termii API key"},
	}

	tests := []struct {
		name        string
		report      health.Report
		query       string
		wantCode    int
		wantRefresh bool
	}{
		{name: "both healthy", report: healthy, wantCode: http.StatusOK},
		{name: "sms down", report: degraded, wantCode: http.StatusInternalServerError},
		{name: "refresh bypasses cache", report: healthy, query: "?refresh=true", wantCode: http.StatusOK, wantRefresh: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeHealth{report: tt.report}
			h := newTestRouter(RouterServices{Health: fake})

			rec := do(t, h, http.MethodGet, "/health"+tt.query, "")

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if fake.refreshed != tt.wantRefresh {
				t.Fatalf("expected refreshed=%v", tt.wantRefresh)
			}
			body := decode(t, rec)
			if body["success"] != tt.report.Success {
				t.Fatalf("unexpected success flag: %v", body["success"])
			}
			if _, ok := body["email"].(map[string]any); !ok {
				t.Fatalf("missing email status: %s", rec.Body.String())
			}
		})
	}
}

func TestHealthProvidersUnconfigured(t *testing.T) {
	h := newTestRouter(RouterServices{})

	rec := do(t, h, http.MethodGet, "/health", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}
