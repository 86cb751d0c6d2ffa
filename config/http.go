package config

import (
	"strings"
	"time"
)

const defaultHTTPAddr = ":5000"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":5000"`

	// Port is the platform-provided listen port; it overrides the default Addr.
	Port string `env:"PORT"`

	// CORSAllowedOrigins lists browser origins allowed to call the API. "*" allows any origin.
	CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// ShutdownTimeout bounds graceful shutdown; in-flight SOS dispatches finish within it.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" || h.Addr == defaultHTTPAddr {
		h.Addr = defaultHTTPAddr
		if port := strings.TrimSpace(h.Port); port != "" {
			h.Addr = ":" + port
		}
	}

	origins := h.CORSAllowedOrigins[:0]
	for _, o := range h.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h.CORSAllowedOrigins = origins

	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30 * time.Second
	}
}
