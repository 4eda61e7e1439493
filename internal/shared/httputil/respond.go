package httputil

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// FlashCookieName carries a one-shot message across a redirect.
const FlashCookieName = "cms_flash"

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a message shown once on the next editor view.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Result is the JSON envelope of editor write endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WantsJSON reports whether the caller is a script expecting a JSON reply instead of a redirect.
func WantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Requested-With")), "XMLHttpRequest") {
		return true
	}
	accept := strings.ToLower(r.Header.Get(echo.HeaderAccept))
	if strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, "text/html") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(r.Header.Get(echo.HeaderContentType)), echo.MIMEApplicationJSON)
}

// SetFlash stores a flash message for the next request.
func SetFlash(c echo.Context, kind, message string) {
	data, err := json.Marshal(Flash{Type: kind, Message: message})
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending flash message, if any, and clears it.
func PopFlash(c echo.Context) *Flash {
	cookie, err := c.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(data, &flash); err != nil || flash.Message == "" {
		return nil
	}
	return &flash
}

// Redirect answers a form post with 303 so the browser follows up with a GET.
func Redirect(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}
