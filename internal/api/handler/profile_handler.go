package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/api/metrics"
	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

const msgProfileUpdated = "Profile updated."

// ProfileHandler serves the signed-in user's own profile as a page and as
// JSON.
type ProfileHandler struct {
	userService ports.UserService
}

func NewProfileHandler(userService ports.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

func (h *ProfileHandler) Show(c echo.Context) error {
	user, err := h.load(c)
	if err != nil {
		return err
	}

	page := newPage(c, "Profile")
	page.Data = user
	page.Form = profileForm{FullName: user.FullName, Email: user.Email}
	if c.QueryParams().Has("updated") {
		page.Notice = msgProfileUpdated
	}
	return render(c, view.PageProfile, page)
}

// Update applies the profile form and redirects back to the profile page.
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	var fields FieldErrors
	if err := c.Validate(&form); err != nil {
		if !errors.As(err, &fields) {
			return err
		}
		metrics.ProfileUpdatesTotal.WithLabelValues("invalid").Inc()
		return h.rerender(c, form, "", fields)
	}

	_, err = h.userService.UpdateProfile(c.Request().Context(), p.Username, ports.ProfileUpdateInput{
		FullName: form.FullName,
		Email:    form.Email,
	})
	switch {
	case err == nil:
		metrics.ProfileUpdatesTotal.WithLabelValues("updated").Inc()
		return c.Redirect(http.StatusFound, "/profile?updated=true")
	case errors.Is(err, domain.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case domain.IsValidation(err):
		metrics.ProfileUpdatesTotal.WithLabelValues("invalid").Inc()
		return h.rerender(c, form, domain.Message(err), nil)
	default:
		metrics.ProfileUpdatesTotal.WithLabelValues("error").Inc()
		return err
	}
}

func (h *ProfileHandler) rerender(c echo.Context, form profileForm, msg string, fields FieldErrors) error {
	user, err := h.load(c)
	if err != nil {
		return err
	}
	page := newPage(c, "Profile")
	page.Data = user
	page.Form = form
	page.Error = msg
	page.FieldErrors = fields
	return render(c, view.PageProfile, page)
}

// GetJSON returns the signed-in user's profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  ports.UserResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/profile [get]
func (h *ProfileHandler) GetJSON(c echo.Context) error {
	user, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateJSON replaces the signed-in user's full name and email.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string       true  "CSRF token"
// @Param        body          body      profileForm  true  "New profile fields"
// @Success      200           {object}  ports.UserResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      409           {object}  errorResponse
// @Router       /api/v1/profile [put]
func (h *ProfileHandler) UpdateJSON(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req profileForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		var fields FieldErrors
		if !errors.As(err, &fields) {
			return err
		}
		metrics.ProfileUpdatesTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), p.Username, ports.ProfileUpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	switch {
	case err == nil:
		metrics.ProfileUpdatesTotal.WithLabelValues("updated").Inc()
		return c.JSON(http.StatusOK, user)
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	case domain.IsValidation(err):
		metrics.ProfileUpdatesTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusConflict, errorResponse{Error: domain.Message(err)})
	default:
		metrics.ProfileUpdatesTotal.WithLabelValues("error").Inc()
		return err
	}
}

func (h *ProfileHandler) load(c echo.Context) (*ports.UserResponse, error) {
	p, err := currentPrincipal(c)
	if err != nil {
		return nil, err
	}
	user, err := h.userService.GetByUsername(c.Request().Context(), p.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}
