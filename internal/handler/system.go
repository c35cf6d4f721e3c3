package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"virtualcto/internal/httputil"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the unauthenticated root and health endpoints
type SystemHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Welcome returns a static greeting
// GET /
func (h *SystemHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to Virtual CTO API",
	})
}

// Health checks database connectivity
// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		httputil.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}
