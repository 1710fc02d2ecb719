package httpserver

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/adapter/export"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

const exportFilename = "feedback.xlsx"

func (s *Server) registerFeedbackRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/feedback", s.handleFeedbackPage, csrfMiddleware)
	s.echo.POST("/feedback", s.handleFeedback, rateLimiter, csrfMiddleware)
	s.echo.GET("/feedback/export.xlsx", s.handleFeedbackExport, s.requireAuth)
}

var easeOptions = []string{"Yes", "No", "Somewhat"}

type feedbackView struct {
	EaseOptions []string
	Submitted   bool
}

func (s *Server) handleFeedbackPage(c echo.Context) error {
	p := s.newPage(c, "Feedback", "feedback")
	p.Form["rating"] = "5"
	p.Form["easy_to_use"] = easeOptions[0]
	p.Result = feedbackView{EaseOptions: easeOptions}
	return s.renderTemplate(c, "feedback.html", p)
}

func (s *Server) handleFeedback(c echo.Context) error {
	p := s.newPage(c, "Feedback", "feedback")
	p.keep(c, "name", "email", "rating", "easy_to_use", "challenges", "general_feedback")
	view := feedbackView{EaseOptions: easeOptions}
	p.Result = view

	rating, err := formInt(c, "rating")
	if err != nil {
		return s.renderOutcome(c, "feedback.html", p, err)
	}

	err = s.app.SubmitFeedback(c.Request().Context(), domain.FeedbackRecord{
		Name:            c.FormValue("name"),
		Email:           c.FormValue("email"),
		Rating:          rating,
		EasyToUse:       c.FormValue("easy_to_use"),
		Challenges:      c.FormValue("challenges"),
		GeneralFeedback: c.FormValue("general_feedback"),
	})
	if err == nil {
		view.Submitted = true
		p.Result = view
		p.Form = map[string]string{"rating": "5", "easy_to_use": easeOptions[0]}
	}
	return s.renderOutcome(c, "feedback.html", p, err)
}

// handleFeedbackExport downloads all stored feedback as a workbook.
func (s *Server) handleFeedbackExport(c echo.Context) error {
	var buf bytes.Buffer
	if err := s.app.ExportFeedback(c.Request().Context(), &buf); err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "Feedback exported", "username", c.Get("username"), "bytes", buf.Len())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportFilename))
	if err := c.Blob(http.StatusOK, export.ContentType, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}
	return nil
}
