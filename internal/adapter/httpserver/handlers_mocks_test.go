package httpserver

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/app"
	"github.com/pscheid92/nlpnavigator/internal/chart"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/config"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAppService struct {
	compareTextsFn   func(ctx context.Context, a, b string) (*app.Comparison, error)
	trendsFn         func(ctx context.Context, upload io.Reader, theme chart.Theme) (*app.TrendReport, error)
	heatmapFn        func(ctx context.Context, in app.HeatmapInput) (*app.HeatmapReport, error)
	geoFn            func(ctx context.Context, upload io.Reader, theme chart.Theme) (*app.GeoReport, error)
	markersForFn     func(id string) ([]app.Marker, error)
	newsFn           func(ctx context.Context, query string, theme chart.Theme) (*app.NewsReport, error)
	webSearch        bool
	emotionsFn       func(ctx context.Context, text string, theme chart.Theme) (*app.EmotionReport, error)
	keyPhrasesFn     func(ctx context.Context, text string, topN int) (*app.KeyPhraseReport, error)
	summarizeFn      func(ctx context.Context, text string) (*app.SummaryReport, error)
	similarityFn     func(ctx context.Context, a, b string) (*app.SimilarityReport, error)
	wordCloudFn      func(ctx context.Context, text string, theme chart.Theme) (*app.WordCloudReport, error)
	processFn        func(ctx context.Context, text string, opts textproc.Options) (*app.ProcessReport, error)
	submitFeedbackFn func(ctx context.Context, rec domain.FeedbackRecord) error
	submitAnalysisFn func(ctx context.Context, rec domain.AnalysisFeedback) error
	exportFeedbackFn func(ctx context.Context, w io.Writer) error
	registerFn       func(ctx context.Context, reg app.Registration) (*domain.UserCredential, error)
	authenticateFn   func(ctx context.Context, username, password string) (*domain.UserCredential, error)
}

var errNotImplemented = errors.New("not implemented")

func (m *mockAppService) CompareTexts(ctx context.Context, a, b string) (*app.Comparison, error) {
	if m.compareTextsFn != nil {
		return m.compareTextsFn(ctx, a, b)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Trends(ctx context.Context, upload io.Reader, theme chart.Theme) (*app.TrendReport, error) {
	if m.trendsFn != nil {
		return m.trendsFn(ctx, upload, theme)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Heatmap(ctx context.Context, in app.HeatmapInput) (*app.HeatmapReport, error) {
	if m.heatmapFn != nil {
		return m.heatmapFn(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Geo(ctx context.Context, upload io.Reader, theme chart.Theme) (*app.GeoReport, error) {
	if m.geoFn != nil {
		return m.geoFn(ctx, upload, theme)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) MarkersFor(id string) ([]app.Marker, error) {
	if m.markersForFn != nil {
		return m.markersForFn(id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) News(ctx context.Context, query string, theme chart.Theme) (*app.NewsReport, error) {
	if m.newsFn != nil {
		return m.newsFn(ctx, query, theme)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) WebSearchEnabled() bool { return m.webSearch }

func (m *mockAppService) Emotions(ctx context.Context, text string, theme chart.Theme) (*app.EmotionReport, error) {
	if m.emotionsFn != nil {
		return m.emotionsFn(ctx, text, theme)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) KeyPhrases(ctx context.Context, text string, topN int) (*app.KeyPhraseReport, error) {
	if m.keyPhrasesFn != nil {
		return m.keyPhrasesFn(ctx, text, topN)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Summarize(ctx context.Context, text string) (*app.SummaryReport, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, text)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Similarity(ctx context.Context, a, b string) (*app.SimilarityReport, error) {
	if m.similarityFn != nil {
		return m.similarityFn(ctx, a, b)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) WordCloud(ctx context.Context, text string, theme chart.Theme) (*app.WordCloudReport, error) {
	if m.wordCloudFn != nil {
		return m.wordCloudFn(ctx, text, theme)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Process(ctx context.Context, text string, opts textproc.Options) (*app.ProcessReport, error) {
	if m.processFn != nil {
		return m.processFn(ctx, text, opts)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) SubmitFeedback(ctx context.Context, rec domain.FeedbackRecord) error {
	if m.submitFeedbackFn != nil {
		return m.submitFeedbackFn(ctx, rec)
	}
	return nil
}

func (m *mockAppService) SubmitAnalysisFeedback(ctx context.Context, rec domain.AnalysisFeedback) error {
	if m.submitAnalysisFn != nil {
		return m.submitAnalysisFn(ctx, rec)
	}
	return nil
}

func (m *mockAppService) ExportFeedback(ctx context.Context, w io.Writer) error {
	if m.exportFeedbackFn != nil {
		return m.exportFeedbackFn(ctx, w)
	}
	return errNotImplemented
}

func (m *mockAppService) Register(ctx context.Context, reg app.Registration) (*domain.UserCredential, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, reg)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) Authenticate(ctx context.Context, username, password string) (*domain.UserCredential, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, username, password)
	}
	return nil, errNotImplemented
}

// --- Test helpers ---

const testTemplates = `
{{define "home.html"}}Home {{.Username}} {{.Theme}}{{end}}
{{define "login.html"}}Login {{.Error}} next={{.Form.next}}{{end}}
{{define "register.html"}}Register {{.Error}}{{range $k, $v := .Fields}} {{$k}}:{{$v}}{{end}}{{with .Result}} welcome {{.Username}}{{end}}{{end}}
{{define "compare.html"}}Compare {{.Error}}{{with .Result}} {{.First.Label}}/{{.Second.Label}}{{end}}{{range .Warnings}} warn:{{.}}{{end}}{{end}}
{{define "trends.html"}}Trends {{.Error}}{{with .Result}} points={{len .Series.Points}} <img src="{{png .Chart}}">{{end}}{{end}}
{{define "heatmap.html"}}Heatmap {{.Error}} themes={{len .Result.ColorThemes}}{{with .Result.Report}} cells={{len .Heatmap.Cells}}{{end}}{{end}}
{{define "geo.html"}}Geo {{.Error}}{{with .Result}} id={{.ID}}{{end}}{{range .Warnings}} warn:{{.}}{{end}}{{end}}
{{define "news.html"}}News {{.Error}} search={{.Result.WebSearch}}{{with .Result.Report}} articles={{len .Articles}}{{end}}{{range .Warnings}} warn:{{.}}{{end}}{{end}}
{{define "emotion.html"}}Emotion {{.Error}} {{.Form.thanks}}{{with .Result}}{{range .Predictions}} {{.Label}}={{pct .Score}}{{end}}{{end}}{{end}}
{{define "keyphrases.html"}}KeyPhrases {{.Error}} top={{.Form.top_n}}{{with .Result}}{{range .Result.Phrases}} {{.Text}}{{end}}{{end}}{{end}}
{{define "summarize.html"}}Summarize {{.Error}}{{with .Result}} {{.Summary}}{{end}}{{end}}
{{define "process.html"}}Process {{.Error}}{{with .Result}} {{.Processed}} tokens={{.Tokens}}{{end}}{{end}}
{{define "similarity.html"}}Similarity {{.Error}}{{with .Result}} {{fixed .Result.Score}}{{end}}{{end}}
{{define "wordcloud.html"}}WordCloud {{.Error}}{{with .Result}} words={{len .Words}}{{end}}{{end}}
{{define "feedback.html"}}Feedback {{.Error}}{{range $k, $v := .Fields}} {{$k}}:{{$v}}{{end}}{{if .Result.Submitted}} submitted{{end}}{{end}}
`

const testSessionSecret = "test-secret-key-32-bytes-long!!!"

func newTestServer(t *testing.T, app appService, opts ...Option) *Server {
	t.Helper()

	tmpl := template.Must(template.New("").Funcs(templateFuncs).Parse(testTemplates))

	store := sessions.NewCookieStore([]byte(testSessionSecret))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	srv := &Server{
		echo:         echo.New(),
		config:       &config.Config{SessionMaxAge: time.Hour, MaxUploadSize: "1M"},
		app:          app,
		sessionStore: store,
		templates:    tmpl,
		startTime:    time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

const testCSRFToken = "test-csrf-token"

// postForm submits a form through the full middleware chain with a valid CSRF token.
func postForm(t *testing.T, srv *Server, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	form.Set("csrf_token", testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRFToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func get(srv *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns a session cookie carrying the given values.
func sessionCookie(t *testing.T, srv *Server, values map[string]string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	for k, v := range values {
		session.Values[k] = v
	}
	require.NoError(t, session.Save(req, rec))
	return findCookie(t, rec, sessionName)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "cookie not set", "no %s cookie in response", name)
	return nil
}

func loggedIn(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	return sessionCookie(t, srv, map[string]string{sessionKeyUsername: "alice", sessionKeyName: "Alice"})
}
