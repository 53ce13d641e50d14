package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/api/session"
	"github.com/portal/user-accounts/internal/core/domain"
)

// RequireRole rejects requests whose session principal holds none of
// allowedRoles. It guards route groups independently of the global policy.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := session.From(c).Principal()
			if p == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
