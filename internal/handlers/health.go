package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether a dependency answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service can reach its database
type HealthHandler struct {
	db  Pinger
	log *logrus.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// HealthCheck answers 200 when the database responds and 503 otherwise
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("health check failed")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}
