package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestWantsJSON(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{"plain form", map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, false},
		{"xhr", map[string]string{"X-Requested-With": "XMLHttpRequest"}, true},
		{"accept json", map[string]string{"Accept": "application/json"}, true},
		{"browser accept", map[string]string{"Accept": "text/html,application/xhtml+xml,application/json;q=0.9"}, false},
		{"json body", map[string]string{"Content-Type": "application/json; charset=utf-8"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cms/menu", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := WantsJSON(req); got != tc.want {
				t.Fatalf("WantsJSON = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFlashRoundTrip(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	SetFlash(e.NewContext(httptest.NewRequest(http.MethodPost, "/cms/menu", nil), rec), FlashSuccess, "Menu publikováno")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a flash cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/cms/menu", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	flash := PopFlash(e.NewContext(req, rec))
	if flash == nil || flash.Type != FlashSuccess || flash.Message != "Menu publikováno" {
		t.Fatalf("unexpected flash %+v", flash)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("flash cookie should be cleared, got %+v", cleared)
	}
}

func TestPopFlashIgnoresGarbage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cms/menu", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "%%%"})
	if flash := PopFlash(e.NewContext(req, httptest.NewRecorder())); flash != nil {
		t.Fatalf("expected nil flash, got %+v", flash)
	}
}
