package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goaltracker/api/internal/render"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.Ping(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		render.Error(w, http.StatusServiceUnavailable, render.KindUnavailable, "database unreachable")
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
