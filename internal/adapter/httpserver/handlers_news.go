package httpserver

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) registerNewsRoutes(csrfMiddleware echo.MiddlewareFunc) {
	s.echo.GET("/news", s.handleNewsPage, csrfMiddleware)
	s.echo.POST("/news", s.handleNews, csrfMiddleware)
}

type newsView struct {
	WebSearch bool
	Report    any
}

func (s *Server) handleNewsPage(c echo.Context) error {
	p := s.newPage(c, "News Sentiment", "news")
	p.Result = newsView{WebSearch: s.app.WebSearchEnabled()}
	return s.renderTemplate(c, "news.html", p)
}

func (s *Server) handleNews(c echo.Context) error {
	p := s.newPage(c, "News Sentiment", "news")
	p.keep(c, "query")
	view := newsView{WebSearch: s.app.WebSearchEnabled()}

	res, err := s.app.News(c.Request().Context(), c.FormValue("query"), p.Theme)
	if err == nil {
		view.Report = res
		p.Warnings = res.Warnings
	}
	p.Result = view
	return s.renderOutcome(c, "news.html", p, err)
}
