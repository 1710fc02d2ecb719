package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/app"
	"github.com/pscheid92/nlpnavigator/internal/chart"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/config"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
	"github.com/pscheid92/nlpnavigator/web"
)

type appService interface {
	CompareTexts(ctx context.Context, a, b string) (*app.Comparison, error)
	Trends(ctx context.Context, upload io.Reader, theme chart.Theme) (*app.TrendReport, error)
	Heatmap(ctx context.Context, in app.HeatmapInput) (*app.HeatmapReport, error)
	Geo(ctx context.Context, upload io.Reader, theme chart.Theme) (*app.GeoReport, error)
	MarkersFor(id string) ([]app.Marker, error)

	News(ctx context.Context, query string, theme chart.Theme) (*app.NewsReport, error)
	WebSearchEnabled() bool

	Emotions(ctx context.Context, text string, theme chart.Theme) (*app.EmotionReport, error)
	KeyPhrases(ctx context.Context, text string, topN int) (*app.KeyPhraseReport, error)
	Summarize(ctx context.Context, text string) (*app.SummaryReport, error)
	Similarity(ctx context.Context, a, b string) (*app.SimilarityReport, error)
	WordCloud(ctx context.Context, text string, theme chart.Theme) (*app.WordCloudReport, error)
	Process(ctx context.Context, text string, opts textproc.Options) (*app.ProcessReport, error)

	SubmitFeedback(ctx context.Context, rec domain.FeedbackRecord) error
	SubmitAnalysisFeedback(ctx context.Context, rec domain.AnalysisFeedback) error
	ExportFeedback(ctx context.Context, w io.Writer) error

	Register(ctx context.Context, reg app.Registration) (*domain.UserCredential, error)
	Authenticate(ctx context.Context, username, password string) (*domain.UserCredential, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          appService
	templates    *template.Template
	sessionStore *sessions.CookieStore

	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	healthChecks []HealthCheck
	startTime    time.Time
}

// Option customises a Server after construction.
type Option func(*Server)

// WithMetrics serves reg at /metrics and records request metrics into m.
func WithMetrics(reg *prometheus.Registry, m *metrics.HTTPMetrics) Option {
	return func(s *Server) {
		s.registry = reg
		s.httpMetrics = m
	}
}

func WithHealthChecks(checks ...HealthCheck) Option {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func NewServer(cfg *config.Config, app appService, opts ...Option) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		templates:    templates,
		sessionStore: setupSessionStore(cfg),
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv, nil
}

func parseTemplates() (*template.Template, error) {
	templates, err := template.New("").Funcs(templateFuncs).ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}

var templateFuncs = template.FuncMap{
	"png": pngDataURI,
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"fixed": func(v float64) string {
		return fmt.Sprintf("%.3f", v)
	},
	"day": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
}

// pngDataURI embeds a rendered chart directly in an img tag.
func pngDataURI(b []byte) template.URL {
	if len(b) == 0 {
		return ""
	}
	//nolint:gosec // base64 of our own PNG bytes
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Session keys
const (
	sessionName        = "nlpnavigator-session"
	sessionKeyUsername = "username"
	sessionKeyName     = "name"
	sessionKeyTheme    = "theme"
)

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	return s.renderTemplateStatus(c, http.StatusOK, name, data)
}

func (s *Server) renderTemplateStatus(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "template", name, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(status, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}
