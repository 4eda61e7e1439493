package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFFormField is the hidden form field carrying the token.
	CSRFFormField = "cms_csrf_token"
	// CSRFHeader carries the token for script clients.
	CSRFHeader = "X-CSRF-Token"
	// CSRFCookieName stores the expected token.
	CSRFCookieName = "cms_csrf"
	// CSRFContextKey is where the middleware leaves the token for handlers.
	CSRFContextKey = "csrf"
)

// CSRF protects unsafe methods with a double-submit token.
func CSRF(secure bool) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + CSRFHeader + ",form:" + CSRFFormField,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
		CookieMaxAge:   8 * 3600,
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "invalid security token, reload the page and try again")
		},
	})
}

// CSRFToken returns the token issued for the current request.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
