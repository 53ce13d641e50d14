package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/ports"
)

// AdminHandler serves the ADMIN-only area.
type AdminHandler struct {
	userService ports.UserService
}

func NewAdminHandler(userService ports.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, "Users")
	page.Data = users
	return render(c, view.PageAdminUsers, page)
}
