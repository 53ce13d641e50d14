package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/api/metrics"
	"github.com/portal/user-accounts/internal/api/middleware"
	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

// AccountHandler serves self-service registration.
type AccountHandler struct {
	userService ports.UserService
}

func NewAccountHandler(userService ports.UserService) *AccountHandler {
	return &AccountHandler{userService: userService}
}

func (h *AccountHandler) RegisterPage(c echo.Context) error {
	page := newPage(c, "Register")
	page.Form = registerForm{}
	return render(c, view.PageRegister, page)
}

// Register creates an account from the registration form. Input problems
// re-render the form with HTTP 200; success redirects to the login page.
func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	if err := c.Validate(&form); err != nil {
		var fields FieldErrors
		if !errors.As(err, &fields) {
			return err
		}
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return h.rerender(c, form, "", fields)
	}

	_, err := h.userService.Register(c.Request().Context(), ports.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		FullName: form.FullName,
		Password: form.Password,
	})
	if err != nil {
		if domain.IsValidation(err) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return h.rerender(c, form, domain.Message(err), nil)
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.Redirect(http.StatusFound, middleware.LoginURL("registered"))
}

func (h *AccountHandler) rerender(c echo.Context, form registerForm, msg string, fields FieldErrors) error {
	form.Password = ""
	page := newPage(c, "Register")
	page.Form = form
	page.Error = msg
	page.FieldErrors = fields
	return render(c, view.PageRegister, page)
}
