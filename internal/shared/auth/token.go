package auth

import (
	"net/http"
	"strings"
)

// SessionCookieName carries the staff session token.
const SessionCookieName = "cms_session"

// ExtractBearerTokenFromHeader extracts the token from an Authorization header value.
// It returns an empty string if no bearer token is present.
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const bearerPrefix = "bearer "
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}

// ExtractSessionToken reads the session cookie, falling back to a bearer header for API clients.
func ExtractSessionToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token
		}
	}
	return ExtractBearerTokenFromHeader(r.Header.Get("Authorization"))
}
