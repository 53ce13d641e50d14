package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/api/middleware"
	"github.com/portal/user-accounts/internal/api/session"
	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/domain"
)

// SessionStore is the part of session.Manager the handlers need.
type SessionStore interface {
	Establish(c echo.Context, p domain.Principal) error
	Destroy(c echo.Context) error
}

func newPage(c echo.Context, title string) view.Page {
	return view.Page{
		Title:     title,
		CSRF:      middleware.CSRFToken(c),
		Principal: session.From(c).Principal(),
	}
}

func render(c echo.Context, name string, page view.Page) error {
	return c.Render(http.StatusOK, name, page)
}

// currentPrincipal returns the session principal. The route policy already
// rejects anonymous callers, so a nil principal here is a wiring bug.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p := session.From(c).Principal()
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}

// HomeHandler serves the landing page.
type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) Index(c echo.Context) error {
	return render(c, view.PageHome, newPage(c, "Home"))
}
