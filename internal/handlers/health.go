package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
)

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string    `json:"status"`
	Service  string    `json:"service"`
	Database string    `json:"database,omitempty"`
	Time     time.Time `json:"time"`
}

// Health reports liveness of the stock service and, when a ping is wired,
// whether its database answers.
type Health struct {
	service string
	ping    func(context.Context) error
}

// NewHealth builds the /healthz handler. ping may be nil.
func NewHealth(service string, ping func(context.Context) error) *Health {
	return &Health{service: service, ping: ping}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status:  "ok",
		Service: h.service,
		Time:    time.Now().UTC(),
	}
	code := http.StatusOK

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		err := h.ping(ctx)
		cancel()
		resp.Database = "ok"
		if err != nil {
			applog.Warn(r.Context(), "health check database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		return
	}
	applog.Debug(r.Context(), "health check responded", "status", resp.Status)
}
