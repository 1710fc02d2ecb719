package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	if s.httpMetrics != nil {
		s.echo.Use(s.httpMetrics.Middleware())
	}
	if s.config.MaxUploadSize != "" {
		s.echo.Use(middleware.BodyLimit(s.config.MaxUploadSize))
	}
	s.echo.Use(ErrorHandlingMiddleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         63072000, // 2 years; only sent over HTTPS
		HSTSPreloadEnabled: true,
		ContentSecurityPolicy: "default-src 'self'; " +
			"img-src 'self' data:; " +
			"style-src 'self' 'unsafe-inline'; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))

	csrfMiddleware := s.setupCSRFMiddleware()
	var onDeny func(string)
	if s.httpMetrics != nil {
		onDeny = s.httpMetrics.RecordRateLimited
	}
	rateLimiter := formRateLimiter(formRatePerSecond, formBurst, onDeny)

	s.echo.GET("/", s.handleHome, csrfMiddleware)

	s.registerHealthRoutes()
	s.registerAuthRoutes(csrfMiddleware, rateLimiter)
	s.registerSentimentRoutes(csrfMiddleware)
	s.registerNewsRoutes(csrfMiddleware)
	s.registerTextRoutes(csrfMiddleware)
	s.registerFeedbackRoutes(csrfMiddleware, rateLimiter)

	if s.registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
	}
}

func (s *Server) handleHome(c echo.Context) error {
	return s.renderTemplate(c, "home.html", s.newPage(c, "NLP Navigator", "home"))
}

// setupRequestLoggerMiddleware logs one line per page request. Probes and
// scrapes are skipped; 5xx answers are logged as warnings.
func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/health/")
		},
		LogStatus:        true,
		LogURI:           true,
		LogRoutePath:     true,
		LogMethod:        true,
		LogLatency:       true,
		LogContentLength: true,
		LogResponseSize:  true,
		LogError:         true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"route", v.RoutePath,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"bytes_in", v.ContentLength,
				"bytes_out", v.ResponseSize,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			slog.Log(c.Request().Context(), level, "Request", attrs...)
			return nil
		},
	})
}

func (s *Server) setupCSRFMiddleware() echo.MiddlewareFunc {
	secure := s.config.AppEnv == "production"
	maxAge := int(s.config.SessionMaxAge.Seconds())

	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookiePath:     "/",
		CookieMaxAge:   maxAge,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
	})
}
