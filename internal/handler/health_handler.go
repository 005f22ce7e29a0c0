package handler

import (
	"context"
	"net/http"

	"pos/internal/logger"

	"github.com/labstack/echo/v4"
)

// *sql.DBが満たす
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *HealthHandler) health(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		log := logger.FromContext(c.Request().Context())
		log.Error().Err(err).Msg("health check: db ping failed")
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
