package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	service DashboardService
	log     *slog.Logger
}

func NewDashboardHandler(service DashboardService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to build dashboard", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, stats)
}
