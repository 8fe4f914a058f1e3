package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Pinger checks a backing store.
type Pinger func(ctx context.Context) error

// HealthHandler reports store reachability.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health answers 200 when the store responds to a ping and 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.store(ctx); err != nil {
		logrus.WithError(err).Warn("store ping failed")
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
}
