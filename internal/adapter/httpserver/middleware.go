package httpserver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/platform/correlation"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
)

const headerCorrelationID = "X-Correlation-ID"

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.Resolve(c.Request().Header.Get(headerCorrelationID))
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(headerCorrelationID, id)
		return next(c)
	}
}

// errorBody is what pages fall back to when an error cannot be shown inline.
// The correlation ID lets a user quote the failing request.
type errorBody struct {
	apperrors.ErrorResponse
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ErrorHandlingMiddleware renders structured errors as JSON. Echo's own
// HTTP errors (CSRF, body limit, 404) pass through to its default handler.
func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(err)
			logError(c, structuredErr)

			body := errorBody{ErrorResponse: structuredErr.ToResponse()}
			body.CorrelationID, _ = correlation.ID(c.Request().Context())
			if err := c.JSON(structuredErr.HTTPStatus(), body); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

var errorLogLevels = map[apperrors.ErrorType]slog.Level{
	apperrors.TypeValidation: slog.LevelInfo,
	apperrors.TypeNotFound:   slog.LevelInfo,
	apperrors.TypeConflict:   slog.LevelWarn,
	apperrors.TypeInternal:   slog.LevelError,
	apperrors.TypeExternal:   slog.LevelError,
}

func logError(c echo.Context, err *apperrors.Error) {
	level, ok := errorLogLevels[err.Type]
	if !ok {
		level = slog.LevelError
	}

	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"status", err.HTTPStatus(),
	}
	if err.Cause != nil && !err.UserFacing() {
		attrs = append(attrs, "cause", err.Cause)
	}
	if username := c.Get("username"); username != nil {
		attrs = append(attrs, "username", username)
	}
	if len(err.Context) > 0 {
		attrs = append(attrs, "fields", err.Context)
	}

	slog.Log(c.Request().Context(), level, "Request failed", attrs...)
}
