package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/app"
	"github.com/pscheid92/nlpnavigator/internal/chart"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
)

const uploadField = "file"

func (s *Server) registerSentimentRoutes(csrfMiddleware echo.MiddlewareFunc) {
	s.echo.GET("/sentiment/compare", s.handleComparePage, csrfMiddleware)
	s.echo.POST("/sentiment/compare", s.handleCompare, csrfMiddleware)
	s.echo.GET("/sentiment/trends", s.handleTrendsPage, csrfMiddleware)
	s.echo.POST("/sentiment/trends", s.handleTrends, csrfMiddleware)
	s.echo.GET("/sentiment/heatmap", s.handleHeatmapPage, csrfMiddleware)
	s.echo.POST("/sentiment/heatmap", s.handleHeatmap, csrfMiddleware)
	s.echo.GET("/sentiment/geo", s.handleGeoPage, csrfMiddleware)
	s.echo.POST("/sentiment/geo", s.handleGeo, csrfMiddleware)
	s.echo.GET("/api/geo/markers", s.handleGeoMarkers)
}

// errNoUpload is returned when a form that needs a file arrived without one.
var errNoUpload = errors.New("no file uploaded")

// openUpload returns the uploaded file of the form, if any.
func openUpload(c echo.Context) (io.ReadCloser, string, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errNoUpload
		}
		return nil, "", apperrors.ValidationError("The upload could not be read")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}
	return f, fh.Filename, nil
}

func requireUpload(c echo.Context) (io.ReadCloser, error) {
	f, _, err := openUpload(c)
	if errors.Is(err, errNoUpload) {
		return nil, apperrors.ValidationError("Please upload a CSV file")
	}
	return f, err
}

func (s *Server) handleComparePage(c echo.Context) error {
	return s.renderTemplate(c, "compare.html", s.newPage(c, "Compare Sentiment", "compare"))
}

func (s *Server) handleCompare(c echo.Context) error {
	p := s.newPage(c, "Compare Sentiment", "compare")
	p.keep(c, "text1", "text2")

	res, err := s.app.CompareTexts(c.Request().Context(), c.FormValue("text1"), c.FormValue("text2"))
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "compare.html", p, err)
}

func (s *Server) handleTrendsPage(c echo.Context) error {
	return s.renderTemplate(c, "trends.html", s.newPage(c, "Sentiment Trends", "trends"))
}

func (s *Server) handleTrends(c echo.Context) error {
	p := s.newPage(c, "Sentiment Trends", "trends")

	f, err := requireUpload(c)
	if err != nil {
		return s.renderOutcome(c, "trends.html", p, err)
	}
	defer f.Close()

	res, err := s.app.Trends(c.Request().Context(), f, p.Theme)
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "trends.html", p, err)
}

type heatmapForm struct {
	Granularities []string
	ColorThemes   []string
}

func (s *Server) newHeatmapPage(c echo.Context) *page {
	p := s.newPage(c, "Sentiment Heatmap", "heatmap")
	p.Form["granularity"] = "sentence"
	p.Form["color_theme"] = chart.ColorThemes[0]
	return p
}

func heatmapOptions() heatmapForm {
	return heatmapForm{
		Granularities: []string{"sentence", "word"},
		ColorThemes:   chart.ColorThemes,
	}
}

type heatmapView struct {
	heatmapForm
	Report *app.HeatmapReport
}

func (s *Server) handleHeatmapPage(c echo.Context) error {
	p := s.newHeatmapPage(c)
	p.Result = heatmapView{heatmapForm: heatmapOptions()}
	return s.renderTemplate(c, "heatmap.html", p)
}

func (s *Server) handleHeatmap(c echo.Context) error {
	p := s.newHeatmapPage(c)
	p.keep(c, "text", "granularity", "color_theme")
	view := heatmapView{heatmapForm: heatmapOptions()}

	in := app.HeatmapInput{
		Text:        c.FormValue("text"),
		Granularity: c.FormValue("granularity"),
		ColorTheme:  c.FormValue("color_theme"),
		Theme:       p.Theme,
	}

	f, name, err := openUpload(c)
	switch {
	case errors.Is(err, errNoUpload):
	case err != nil:
		p.Result = view
		return s.renderOutcome(c, "heatmap.html", p, err)
	default:
		defer f.Close()
		in.Upload = f
		in.Filename = name
	}

	res, err := s.app.Heatmap(c.Request().Context(), in)
	if err == nil {
		view.Report = res
		p.Warnings = res.Warnings
	}
	p.Result = view
	return s.renderOutcome(c, "heatmap.html", p, err)
}

func (s *Server) handleGeoPage(c echo.Context) error {
	return s.renderTemplate(c, "geo.html", s.newPage(c, "Geospatial Sentiment", "geo"))
}

func (s *Server) handleGeo(c echo.Context) error {
	p := s.newPage(c, "Geospatial Sentiment", "geo")

	f, err := requireUpload(c)
	if err != nil {
		return s.renderOutcome(c, "geo.html", p, err)
	}
	defer f.Close()

	res, err := s.app.Geo(c.Request().Context(), f, p.Theme)
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "geo.html", p, err)
}

// handleGeoMarkers serves the marker feed of a previous geo analysis as JSON.
func (s *Server) handleGeoMarkers(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return apperrors.ValidationError("id is required")
	}

	markers, err := s.app.MarkersFor(id)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, map[string]any{"markers": markers}); err != nil {
		return fmt.Errorf("failed to write markers response: %w", err)
	}
	return nil
}
