package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/core/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestServer(m *Manager) *echo.Echo {
	e := echo.New()
	e.Use(echosession.Middleware(m.NewCookieStore(testSecret)))
	e.Use(m.Load())

	e.POST("/login", func(c echo.Context) error {
		p := domain.Principal{Username: "alice", Role: domain.RoleAdmin}
		if err := m.Establish(c, p); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.POST("/logout", func(c echo.Context) error {
		if err := m.Destroy(c); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/whoami", func(c echo.Context) error {
		p := From(c).Principal()
		if p == nil {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, p.Username+":"+string(p.Role))
	})
	return e
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response carries no %q cookie", name)
	return nil
}

func whoami(e *echo.Echo, cookie *http.Cookie) string {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestManager_EstablishThenLoad(t *testing.T) {
	m := NewManager(Options{})
	e := newTestServer(m)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("login status = %d", rec.Code)
	}
	cookie := sessionCookie(t, rec, DefaultCookieName)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	if got := whoami(e, cookie); got != "alice:ADMIN" {
		t.Errorf("whoami = %q, want alice:ADMIN", got)
	}
}

func TestManager_AnonymousWithoutCookie(t *testing.T) {
	e := newTestServer(NewManager(Options{}))
	if got := whoami(e, nil); got != "anonymous" {
		t.Errorf("whoami = %q", got)
	}
}

func TestManager_TamperedCookieIsAnonymous(t *testing.T) {
	e := newTestServer(NewManager(Options{}))
	forged := &http.Cookie{Name: DefaultCookieName, Value: "not-a-signed-value"}
	if got := whoami(e, forged); got != "anonymous" {
		t.Errorf("whoami = %q", got)
	}
}

func TestManager_DestroyExpiresCookie(t *testing.T) {
	m := NewManager(Options{CookieName: "sid"})
	e := newTestServer(m)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, rec, "sid")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	cleared := sessionCookie(t, rec, "sid")
	if cleared.MaxAge >= 0 {
		t.Errorf("logout cookie MaxAge = %d, want < 0", cleared.MaxAge)
	}
}

func TestManager_ExpiredSessionIsAnonymous(t *testing.T) {
	m := NewManager(Options{MaxAge: time.Hour})
	e := newTestServer(m)

	issued := time.Now()
	m.now = func() time.Time { return issued }
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, rec, DefaultCookieName)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if got := whoami(e, cookie); got != "anonymous" {
		t.Errorf("whoami after expiry = %q", got)
	}
}

func TestFrom_WithoutLoadIsAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if From(c).Authenticated() {
		t.Fatal("expected anonymous state")
	}

	WithPrincipal(c, &domain.Principal{Username: "bob", Role: domain.RoleUser})
	if p := From(c).Principal(); p == nil || p.Username != "bob" {
		t.Errorf("principal = %+v", p)
	}
}
