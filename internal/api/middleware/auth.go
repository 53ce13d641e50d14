package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/api/metrics"
	"github.com/portal/user-accounts/internal/api/session"
	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/security"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// Authorize applies policy to every request using the principal loaded by
// session.Manager.Load. Anonymous callers hitting a protected page are
// redirected to the login form; JSON API callers get 401 instead.
func Authorize(policy *security.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			switch policy.Decide(path, session.From(c).Principal()) {
			case security.Permit:
				return next(c)
			case security.Challenge:
				metrics.AccessDeniedTotal.WithLabelValues("challenge").Inc()
				if isAPIPath(path) {
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
				}
				return c.Redirect(http.StatusFound, LoginPath)
			default:
				metrics.AccessDeniedTotal.WithLabelValues("forbid").Inc()
				return domain.ErrForbidden
			}
		}
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// WantsJSON reports whether the response to c should be JSON rather than
// an HTML page.
func WantsJSON(c echo.Context) bool {
	if isAPIPath(c.Request().URL.Path) {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// LoginURL builds the login path with a single flag query parameter such as
// "error" or "registered".
func LoginURL(flag string) string {
	if flag == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{flag: {"true"}}.Encode()
}
