package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

func TestAdminHandler_ListUsers(t *testing.T) {
	e := newTestEcho(t)
	users := &stubUserService{listFn: func(context.Context) ([]ports.UserResponse, error) {
		return []ports.UserResponse{
			{Username: "admin", FullName: "Administrator", Email: "admin@localhost", Role: "ADMIN"},
			{Username: "alice", FullName: "Alice Liddell", Email: "alice@example.com", Role: "USER"},
		}, nil
	}}
	h := NewAdminHandler(users)

	c, rec := newFormContext(e, http.MethodGet, "/admin/users", nil)
	signIn(c, "admin", domain.RoleAdmin)
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertBodyContains(t, rec, "Administrator", "alice@example.com")
}

func TestAdminHandler_ListUsers_Error(t *testing.T) {
	e := newTestEcho(t)
	boom := errors.New("cursor failed")
	h := NewAdminHandler(&stubUserService{listFn: func(context.Context) ([]ports.UserResponse, error) {
		return nil, boom
	}})

	c, _ := newFormContext(e, http.MethodGet, "/admin/users", nil)
	signIn(c, "admin", domain.RoleAdmin)
	if err := h.ListUsers(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
}

func TestHomeHandler_Index(t *testing.T) {
	e := newTestEcho(t)
	c, rec := newFormContext(e, http.MethodGet, "/", nil)

	if err := NewHomeHandler().Index(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertBodyContains(t, rec, `href="/register"`, `href="/login"`)
}
