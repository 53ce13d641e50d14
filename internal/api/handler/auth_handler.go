package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portal/user-accounts/internal/api/metrics"
	"github.com/portal/user-accounts/internal/api/middleware"
	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

const (
	msgLoginError  = "Invalid username or password"
	msgRegistered  = "Registration successful. Please log in."
	loginSuccessTo = "/profile"
	logoutTo       = "/"
)

// AuthHandler serves form login and logout.
type AuthHandler struct {
	authService ports.AuthService
	sessions    SessionStore
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, sessions SessionStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, log: log}
}

// LoginPage renders the login form. The error and registered query flags
// select the banner; their values are ignored.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	page := newPage(c, "Sign in")
	q := c.QueryParams()
	if q.Has("error") {
		page.Error = msgLoginError
	}
	if q.Has("registered") {
		page.Notice = msgRegistered
	}
	return render(c, view.PageLogin, page)
}

// Login authenticates the form credentials. Every credential failure,
// including a locked client, ends on the same generic error redirect.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.Redirect(http.StatusFound, middleware.LoginURL("error"))
	}

	principal, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username:  form.Username,
		Password:  form.Password,
		ClientKey: c.RealIP(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			if errors.Is(err, domain.ErrLockedOut) {
				metrics.LoginLockoutsTotal.Inc()
			}
			return c.Redirect(http.StatusFound, middleware.LoginURL("error"))
		}
		return err
	}

	if err := h.sessions.Establish(c, *principal); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusFound, loginSuccessTo)
}

// Logout ends the session and expires its cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if p, err := currentPrincipal(c); err == nil {
		h.log.Info().Str("username", p.Username).Msg("user signed out")
	}
	if err := h.sessions.Destroy(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, logoutTo)
}
