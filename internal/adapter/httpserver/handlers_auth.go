package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/app"
	"github.com/pscheid92/nlpnavigator/internal/chart"
)

func (s *Server) registerAuthRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/auth/login", s.handleLoginPage, csrfMiddleware)
	s.echo.POST("/auth/login", s.handleLogin, rateLimiter, csrfMiddleware)
	s.echo.GET("/auth/register", s.handleRegisterPage, csrfMiddleware)
	s.echo.POST("/auth/register", s.handleRegister, rateLimiter, csrfMiddleware)
	s.echo.POST("/auth/logout", s.handleLogout, csrfMiddleware)
	s.echo.POST("/theme", s.handleTheme, csrfMiddleware)
}

type sessionUser struct {
	username string
	name     string
}

func (s *Server) currentUser(c echo.Context) (sessionUser, bool) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return sessionUser{}, false
	}
	username, ok := session.Values[sessionKeyUsername].(string)
	if !ok || username == "" {
		return sessionUser{}, false
	}
	name, _ := session.Values[sessionKeyName].(string)
	return sessionUser{username: username, name: name}, true
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := s.currentUser(c)
		if !ok {
			return c.Redirect(http.StatusFound, "/auth/login?next="+url.QueryEscape(c.Request().URL.Path))
		}
		c.Set("username", user.username)
		return next(c)
	}
}

// theme reads the colour scheme from the session, defaulting to Light.
func (s *Server) theme(c echo.Context) chart.Theme {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return chart.ThemeLight
	}
	v, _ := session.Values[sessionKeyTheme].(string)
	return chart.ParseTheme(v)
}

func (s *Server) handleTheme(c echo.Context) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("Discarding unreadable session", "error", err)
	}
	session.Values[sessionKeyTheme] = string(chart.ParseTheme(c.FormValue("theme")))
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return s.redirect(c, safeNext(c.FormValue("next")))
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (s *Server) handleLoginPage(c echo.Context) error {
	if _, ok := s.currentUser(c); ok {
		return s.redirect(c, "/")
	}
	p := s.newPage(c, "Log in", "login")
	p.Form["next"] = c.QueryParam("next")
	return s.renderTemplate(c, "login.html", p)
}

func (s *Server) handleLogin(c echo.Context) error {
	p := s.newPage(c, "Log in", "login")
	p.keep(c, "username", "next")

	cred, err := s.app.Authenticate(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return s.renderOutcome(c, "login.html", p, err)
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("Discarding unreadable session", "error", err)
	}
	session.Values[sessionKeyUsername] = cred.Username
	session.Values[sessionKeyName] = cred.Name
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	slog.InfoContext(c.Request().Context(), "User logged in", "username", cred.Username)
	return s.redirect(c, safeNext(c.FormValue("next")))
}

func (s *Server) handleRegisterPage(c echo.Context) error {
	return s.renderTemplate(c, "register.html", s.newPage(c, "Register", "register"))
}

func (s *Server) handleRegister(c echo.Context) error {
	p := s.newPage(c, "Register", "register")
	p.keep(c, "username", "name", "email")

	reg := app.Registration{
		Username:        c.FormValue("username"),
		Name:            c.FormValue("name"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	}
	cred, err := s.app.Register(c.Request().Context(), reg)
	if err != nil {
		return s.renderOutcome(c, "register.html", p, err)
	}

	p.Result = cred
	return s.renderTemplate(c, "register.html", p)
}

func (s *Server) handleLogout(c echo.Context) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err == nil {
		delete(session.Values, sessionKeyUsername)
		delete(session.Values, sessionKeyName)
		if err := session.Save(c.Request(), c.Response()); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	return s.redirect(c, "/auth/login")
}
