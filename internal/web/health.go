package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) healthCheck(w http.ResponseWriter, r *http.Request) {
	code, status := http.StatusOK, "ok"

	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.health.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			code, status = http.StatusServiceUnavailable, "error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: status}); err != nil {
		h.logger.Warn("failed to write health response", "error", err)
	}
}
