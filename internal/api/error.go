package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Message string `json:"error"`
}

var (
	InternalServerError = ErrorResponse{"Internal server error"} //nolint:gochecknoglobals // this is a constant response for internal server error
	BadRequestError     = ErrorResponse{"Bad request"}           //nolint:gochecknoglobals // this is a constant response for bad request
)

// HTTPErrorHandler renders errors returned by handlers and middlewares as ErrorResponse.
// Server errors never expose their details.
func HTTPErrorHandler(log *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		ctx := c.Request().Context()
		if c.Response().Committed {
			log.DebugContext(ctx, "response already committed", "error", err)
			return
		}

		var echoError *echo.HTTPError
		if !errors.As(err, &echoError) {
			log.ErrorContext(ctx, "failed to process request", "error", err)
			writeError(c, log, http.StatusInternalServerError, InternalServerError)
			return
		}

		if echoError.Code >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "failed to process request", "error", err)
			writeError(c, log, echoError.Code, InternalServerError)
			return
		}
		log.DebugContext(ctx, "request rejected", "error", err, "status", echoError.Code)

		switch message := echoError.Message.(type) {
		case string:
			if message == "" {
				message = http.StatusText(echoError.Code)
			}
			writeError(c, log, echoError.Code, ErrorResponse{Message: message})
		case error:
			writeError(c, log, echoError.Code, ErrorResponse{Message: message.Error()})
		default:
			bytes, mErr := json.Marshal(message)
			if mErr != nil {
				log.ErrorContext(ctx, "failed to marshal error message", "error", mErr)
				writeError(c, log, http.StatusInternalServerError, InternalServerError)
				return
			}
			writeError(c, log, echoError.Code, ErrorResponse{Message: string(bytes)})
		}
	}
}

func writeError(c echo.Context, log *slog.Logger, code int, body ErrorResponse) {
	if err := c.JSON(code, body); err != nil {
		log.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
	}
}
