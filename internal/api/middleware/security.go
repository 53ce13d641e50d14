package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFContextKey is where the CSRF middleware stores the token for views.
	CSRFContextKey = "csrf"
	CSRFFormField  = "_csrf"
	CSRFHeader     = "X-CSRF-Token"

	ContentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'"

	actuatorPrefix = "/actuator"
)

// CSRF protects every state-changing route except the monitoring group.
// The token is accepted from the _csrf form field or the X-CSRF-Token header.
func CSRF(secureCookie bool) echo.MiddlewareFunc {
	return echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		Skipper:        isActuatorPath,
		TokenLookup:    "form:" + CSRFFormField + ",header:" + CSRFHeader,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFFormField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secureCookie,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

func isActuatorPath(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == actuatorPrefix || strings.HasPrefix(path, actuatorPrefix+"/")
}

// SecureHeaders sets the CSP and the usual hardening headers. HSTS is only
// sent when hsts is true, which should be the case behind TLS.
func SecureHeaders(hsts bool) echo.MiddlewareFunc {
	cfg := echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "same-origin",
		ContentSecurityPolicy: ContentSecurityPolicy,
	}
	if hsts {
		cfg.HSTSMaxAge = 31536000
	}
	return echomiddleware.SecureWithConfig(cfg)
}

// CSRFToken returns the token the CSRF middleware issued for this request.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
