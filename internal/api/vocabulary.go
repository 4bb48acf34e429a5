package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/story-learning/internal/vocabulary"
)

type (
	// MarkWordRequest carries the word itself in wordId, not a vocabulary id.
	MarkWordRequest struct {
		WordID string `json:"wordId" validate:"required"`
	}

	VocabularyHandler struct {
		service VocabularyService
		log     *slog.Logger
	}
)

func NewVocabularyHandler(service VocabularyService, log *slog.Logger) *VocabularyHandler {
	return &VocabularyHandler{service: service, log: log}
}

func (h *VocabularyHandler) Known(c echo.Context) error {
	words, err := h.service.ListKnown(c.Request().Context())
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to list known words", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	if words == nil {
		words = []string{}
	}

	return c.JSON(http.StatusOK, words)
}

func (h *VocabularyHandler) Mark(c echo.Context) error {
	ctx := c.Request().Context()

	var req MarkWordRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(ctx, "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(ctx, "failed to validate request", "error", err)
		return err
	}

	if err := h.service.MarkKnown(ctx, req.WordID); err != nil {
		if errors.Is(err, vocabulary.ErrEmptyWord) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{"wordId is required"})
		}
		h.log.ErrorContext(ctx, "failed to mark word known", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *VocabularyHandler) MyListDetails(c echo.Context) error {
	details, err := h.service.Details(c.Request().Context())
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to find known word details", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	if details == nil {
		details = []vocabulary.Definition{}
	}

	return c.JSON(http.StatusOK, details)
}

func (h *VocabularyHandler) Reset(c echo.Context) error {
	if err := h.service.Reset(c.Request().Context()); err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to reset progress", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Progress reset successfully"})
}
