// Package session keeps the authenticated principal in a signed cookie
// session and exposes it to handlers as a per-request State.
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/core/domain"
)

const (
	DefaultCookieName = "portal_session"

	keyUsername = "username"
	keyRole     = "role"
	keyIssuedAt = "issued_at"

	stateContextKey = "session.state"
)

// State is the session view of one request. It is built by Manager.Load and
// never shared between requests.
type State struct {
	principal *domain.Principal
}

// Principal returns the logged-in identity, or nil for anonymous callers.
func (s *State) Principal() *domain.Principal {
	if s == nil || s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

func (s *State) Authenticated() bool {
	return s != nil && s.principal != nil
}

// From returns the request's State. A request that never went through Load
// is anonymous.
func From(c echo.Context) *State {
	if st, ok := c.Get(stateContextKey).(*State); ok {
		return st
	}
	return &State{}
}

// WithPrincipal attaches p to c as the request's State.
func WithPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(stateContextKey, &State{principal: p})
}

// Options configures the session cookie.
type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Manager reads and writes the principal in the cookie session.
type Manager struct {
	name    string
	options sessions.Options
	maxAge  time.Duration
	now     func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 12 * time.Hour
	}
	return &Manager{
		name:   opts.CookieName,
		maxAge: opts.MaxAge,
		options: sessions.Options{
			Path:     "/",
			MaxAge:   int(opts.MaxAge.Seconds()),
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: http.SameSiteLaxMode,
		},
		now: time.Now,
	}
}

// NewCookieStore returns a gorilla cookie store signed with secret and using
// the manager's cookie options.
func (m *Manager) NewCookieStore(secret []byte) sessions.Store {
	store := sessions.NewCookieStore(secret)
	opts := m.options
	store.Options = &opts
	return store
}

// CookieName is the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.name
}

// Load builds the request State from the session cookie. Unreadable or
// expired sessions are treated as anonymous. It must run after
// echo-contrib's session.Middleware.
func (m *Manager) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(stateContextKey, &State{principal: m.read(c)})
			return next(c)
		}
	}
}

func (m *Manager) read(c echo.Context) *domain.Principal {
	sess, err := echosession.Get(m.name, c)
	if err != nil || sess.IsNew {
		return nil
	}

	username, _ := sess.Values[keyUsername].(string)
	role, _ := sess.Values[keyRole].(string)
	issuedAt, _ := sess.Values[keyIssuedAt].(int64)
	if username == "" || !domain.Role(role).Valid() {
		return nil
	}
	if issuedAt == 0 || m.now().Sub(time.Unix(issuedAt, 0)) > m.maxAge {
		return nil
	}
	return &domain.Principal{Username: username, Role: domain.Role(role)}
}

// Establish replaces whatever the session held with p.
func (m *Manager) Establish(c echo.Context, p domain.Principal) error {
	sess, _ := echosession.Get(m.name, c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable")
	}

	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Values[keyUsername] = p.Username
	sess.Values[keyRole] = string(p.Role)
	sess.Values[keyIssuedAt] = m.now().Unix()
	opts := m.options
	sess.Options = &opts

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	WithPrincipal(c, &p)
	return nil
}

// Destroy empties the session and expires its cookie.
func (m *Manager) Destroy(c echo.Context) error {
	sess, _ := echosession.Get(m.name, c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable")
	}

	for k := range sess.Values {
		delete(sess.Values, k)
	}
	opts := m.options
	opts.MaxAge = -1
	sess.Options = &opts

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	WithPrincipal(c, nil)
	return nil
}
