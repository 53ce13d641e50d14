package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portal/user-accounts/internal/api/session"
	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, in ports.LoginInput) (*domain.Principal, error)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.Principal, error) {
	return s.loginFn(ctx, in)
}

type stubUserService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.UserResponse, error)
	getFn           func(ctx context.Context, username string) (*ports.UserResponse, error)
	updateProfileFn func(ctx context.Context, username string, in ports.ProfileUpdateInput) (*ports.UserResponse, error)
	listFn          func(ctx context.Context) ([]ports.UserResponse, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*ports.UserResponse, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) GetByUsername(ctx context.Context, username string) (*ports.UserResponse, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, username string, in ports.ProfileUpdateInput) (*ports.UserResponse, error) {
	return s.updateProfileFn(ctx, username, in)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]ports.UserResponse, error) {
	return s.listFn(ctx)
}

type stubSessions struct {
	established *domain.Principal
	destroyed   bool
	err         error
}

func (s *stubSessions) Establish(_ echo.Context, p domain.Principal) error {
	if s.err != nil {
		return s.err
	}
	s.established = &p
	return nil
}

func (s *stubSessions) Destroy(echo.Context) error {
	if s.err != nil {
		return s.err
	}
	s.destroyed = true
	return nil
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

func newFormContext(e *echo.Echo, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func signIn(c echo.Context, username string, role domain.Role) {
	session.WithPrincipal(c, &domain.Principal{Username: username, Role: role})
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}
}

func assertBodyContains(t *testing.T, rec *httptest.ResponseRecorder, wants ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

var discardLogger = zerolog.Nop()
