package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type (
	HealthResponse struct {
		Status   string    `json:"status"`
		Database string    `json:"database"`
		Time     time.Time `json:"time"`
	}

	Pinger interface {
		Ping(ctx context.Context) error
	}

	HealthHandler struct {
		db  Pinger
		now func() time.Time
		log *slog.Logger
	}
)

func NewHealthHandler(db Pinger, now func() time.Time, log *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, now: now, log: log}
}

func (h *HealthHandler) Health(c echo.Context) error {
	database := "connected"
	if err := h.db.Ping(c.Request().Context()); err != nil {
		h.log.ErrorContext(c.Request().Context(), "database ping failed", "error", err)
		database = "disconnected"
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: database,
		Time:     h.now().UTC(),
	})
}
