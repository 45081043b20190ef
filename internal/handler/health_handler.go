package handler

import (
	"context"
	"net/http"

	"tgshop/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// /healthz。DBに届くかだけ見る
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// DI
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.healthz)
}

func (h *HealthHandler) healthz(c echo.Context) error {
	if err := h.ping(c.Request().Context()); err != nil {
		logger.FromContext(c.Request().Context()).Error("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
