package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/chart"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
)

// page is the data every template receives. Form echoes the submitted values
// back so a rejected form keeps its input.
type page struct {
	Title     string
	Active    string
	Path      string
	CSRFToken string
	Theme     chart.Theme
	Username  string
	Name      string

	Form     map[string]string
	Error    string
	Fields   map[string]any
	Warnings []string
	Result   any
}

func (s *Server) newPage(c echo.Context, title, active string) *page {
	p := &page{
		Title:  title,
		Active: active,
		Path:   c.Request().URL.Path,
		Theme:  s.theme(c),
		Form:   map[string]string{},
	}
	if token, ok := c.Get("csrf").(string); ok {
		p.CSRFToken = token
	}
	if user, ok := s.currentUser(c); ok {
		p.Username = user.username
		p.Name = user.name
	}
	return p
}

// keep copies the named form values into the page.
func (p *page) keep(c echo.Context, names ...string) {
	for _, n := range names {
		p.Form[n] = c.FormValue(n)
	}
}

// renderOutcome renders the page, showing user-facing errors inline. Internal
// and external failures still go through the error middleware.
func (s *Server) renderOutcome(c echo.Context, name string, p *page, err error) error {
	if err == nil {
		return s.renderTemplate(c, name, p)
	}

	var structured *apperrors.Error
	if !errors.As(err, &structured) {
		return err
	}

	if !structured.UserFacing() {
		return err
	}

	logError(c, structured)
	p.Error = structured.Message
	p.Fields = structured.Context
	return s.renderTemplateStatus(c, structured.HTTPStatus(), name, p)
}

func (s *Server) redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}
