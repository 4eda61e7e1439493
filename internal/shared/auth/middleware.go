package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth.claims"

// CookieSettings controls the session cookie attributes.
type CookieSettings struct {
	Secure bool
	Path   string
}

func (s CookieSettings) path() string {
	if s.Path == "" {
		return "/"
	}
	return s.Path
}

// SetSessionCookie writes the HttpOnly session cookie.
func SetSessionCookie(c echo.Context, settings CookieSettings, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     settings.path(),
		Expires:  expires,
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context, settings CookieSettings) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     settings.path(),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// RequireSession rejects requests without a valid session and re-issues the cookie on
// activity so the lifetime acts as an inactivity timeout.
func RequireSession(tokens *SessionTokens, settings CookieSettings) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := tokens.Validate(ExtractSessionToken(c.Request()))
			if err != nil {
				slog.Debug("session rejected", slog.String("path", c.Path()), slog.String("ip", c.RealIP()), slog.Any("error", err))
				ClearSessionCookie(c, settings)
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			if tokens.NeedsRenewal(claims) {
				if token, expires, err := tokens.Issue(claims.UserID(), claims.Name); err == nil {
					SetSessionCookie(c, settings, token, expires)
				} else {
					slog.Warn("session renewal failed", slog.String("user", claims.UserID()), slog.Any("error", err))
				}
			}
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the session stored by RequireSession.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
