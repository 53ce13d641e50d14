package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/portal/user-accounts/docs"
	"github.com/portal/user-accounts/internal/api/handler"
	"github.com/portal/user-accounts/internal/api/middleware"
	"github.com/portal/user-accounts/internal/api/session"
	"github.com/portal/user-accounts/internal/api/view"
	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
	"github.com/portal/user-accounts/internal/core/security"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Logger      zerolog.Logger
	UserService ports.UserService
	AuthService ports.AuthService

	SessionSecret []byte
	Session       session.Options

	// TrustedProxies are the CIDRs allowed to set X-Forwarded-For. The login
	// throttle keys on the resulting client IP.
	TrustedProxies []string

	// Secure enables HSTS. The session and CSRF cookies follow Session.Secure.
	Secure bool

	// HealthChecks are pinged by the readiness probe, keyed by dependency name.
	HealthChecks map[string]handler.Pinger

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	if deps.UserService == nil || deps.AuthService == nil {
		return nil, errors.New("router: user and auth services are required")
	}
	if len(deps.SessionSecret) == 0 {
		return nil, errors.New("router: session secret is required")
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	ipExtractor, err := NewIPExtractor(deps.TrustedProxies)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.IPExtractor = ipExtractor
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	sessions := session.NewManager(deps.Session)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	httpMetrics, err := echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/actuator/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}
	e.Use(httpMetrics)
	e.Use(middleware.SecureHeaders(deps.Secure))
	e.Use(echosession.Middleware(sessions.NewCookieStore(deps.SessionSecret)))
	e.Use(sessions.Load())
	e.Use(middleware.CSRF(deps.Session.Secure))
	e.Use(middleware.Authorize(security.DefaultPolicy()))

	// --- Handlers ---
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(deps.AuthService, sessions, deps.Logger)
	accountHandler := handler.NewAccountHandler(deps.UserService)
	profileHandler := handler.NewProfileHandler(deps.UserService)
	adminHandler := handler.NewAdminHandler(deps.UserService)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	// --- Public pages ---
	e.GET("/", homeHandler.Index)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/register", accountHandler.RegisterPage)
	e.POST("/register", accountHandler.Register)
	e.StaticFS("/css", view.Static())

	// --- Authenticated pages ---
	e.POST("/logout", authHandler.Logout)
	e.GET("/profile", profileHandler.Show)
	e.POST("/profile", profileHandler.Update)

	v1 := e.Group("/api/v1")
	v1.GET("/profile", profileHandler.GetJSON)
	v1.PUT("/profile", profileHandler.UpdateJSON)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Admin area ---
	admin := e.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/users")
	})

	// --- Monitoring (no auth, no CSRF) ---
	actuator := e.Group("/actuator")
	actuator.GET("/health", healthHandler.Liveness)
	actuator.GET("/health/ready", healthHandler.Readiness)
	actuator.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))

	return e, nil
}
