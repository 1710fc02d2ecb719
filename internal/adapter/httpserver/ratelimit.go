package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
	"golang.org/x/time/rate"
)

const (
	formRatePerSecond = 1
	formBurst         = 10
	visitorExpiry     = 10 * time.Minute
)

const rateLimitedMessage = "Too many submissions, please wait a moment and try again"

// formRateLimiter throttles credential and feedback submissions per client IP.
// onDeny runs for every rejected request and may be nil.
func formRateLimiter(perSecond float64, burst int, onDeny func(route string)) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: visitorExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			if onDeny != nil {
				onDeny(c.Path())
			}
			resp := apperrors.ErrorResponse{Error: rateLimitedMessage, Type: apperrors.TypeValidation}
			return c.JSON(http.StatusTooManyRequests, resp)
		},
	})
}
