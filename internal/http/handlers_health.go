package httpx

import (
	"io"
	"net/http"
	"strconv"

	"github.com/beeseek/notify-api/internal/service/health"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for readiness/liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// HealthHandlers serves the provider health endpoint.
type HealthHandlers struct {
	Svc HealthChecker
}

// Providers handles GET /health. It answers 200 only when both providers are
// healthy. ?refresh=true bypasses the cached report.
func (h *HealthHandlers) Providers(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		WriteFailure(w, http.StatusServiceUnavailable, "Health check failed")
		return
	}

	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	var rep health.Report
	if refresh {
		rep = h.Svc.Refresh(r.Context())
	} else {
		rep = h.Svc.Check(r.Context())
	}

	code := http.StatusOK
	if !rep.Success {
		code = http.StatusInternalServerError
	}
	WriteJSON(w, code, rep)
}
