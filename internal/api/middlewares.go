package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/story-learning/internal/context"
)

// RequestIDMiddleware copies the request id generated by middleware.RequestID into the request context.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID != "" {
				c.SetRequest(c.Request().WithContext(context.WithRequestID(c.Request().Context(), requestID)))
			}

			return next(c)
		}
	}
}
