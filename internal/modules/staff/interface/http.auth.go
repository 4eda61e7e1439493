package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"menuCms/internal/modules/staff/application/usecase"
	"menuCms/internal/modules/staff/domain"
	"menuCms/internal/shared/auth"
	"menuCms/internal/shared/httputil"
)

const (
	LoginPath   = "/cms/login"
	landingPath = "/cms/menu"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type passwordRequest struct {
	Current      string `json:"current_password" form:"current_password"`
	Next         string `json:"new_password" form:"new_password"`
	Confirmation string `json:"confirm_password" form:"confirm_password"`
}

// loginView is the state the login page needs.
type loginView struct {
	Authenticated bool            `json:"authenticated"`
	User          string          `json:"user,omitempty"`
	Name          string          `json:"name,omitempty"`
	CSRFToken     string          `json:"csrfToken"`
	CSRFField     string          `json:"csrfField"`
	Flash         *httputil.Flash `json:"flash,omitempty"`
}

// AuthHandlers serves staff login, logout and password change.
type AuthHandlers struct {
	service *usecase.AuthService
	tokens  *auth.SessionTokens
	cookies auth.CookieSettings
	errors  *httputil.ErrorMapper
}

func NewAuthHandlers(service *usecase.AuthService, tokens *auth.SessionTokens, cookies auth.CookieSettings) *AuthHandlers {
	return &AuthHandlers{
		service: service,
		tokens:  tokens,
		cookies: cookies,
		errors: httputil.NewErrorMapper().
			WithMapping(domain.ErrMissingCredentials, http.StatusBadRequest, "Enter username and password.").
			WithMapping(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password.").
			WithMapping(domain.ErrUserNotFound, http.StatusUnauthorized, "login required").
			WithMapping(domain.ErrWrongPassword, http.StatusBadRequest, "").
			WithMapping(domain.ErrPasswordTooShort, http.StatusBadRequest, "").
			WithMapping(domain.ErrPasswordMismatch, http.StatusBadRequest, ""),
	}
}

// LoginPage handles GET /cms/login.
func (h *AuthHandlers) LoginPage(c echo.Context) error {
	view := loginView{
		CSRFToken: httputil.CSRFToken(c),
		CSRFField: httputil.CSRFFormField,
		Flash:     httputil.PopFlash(c),
	}
	if claims, err := h.tokens.Validate(auth.ExtractSessionToken(c.Request())); err == nil {
		view.Authenticated = true
		view.User = claims.UserID()
		view.Name = claims.DisplayName()
	}
	return c.JSON(http.StatusOK, view)
}

// Login handles POST /cms/login with a form or JSON body.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, LoginPath, domain.ErrMissingCredentials)
	}
	session, err := h.service.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		return h.fail(c, LoginPath, err)
	}
	auth.SetSessionCookie(c, h.cookies, session.Token, session.ExpiresAt)
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(http.StatusOK, httputil.Result{
			Success: true,
			Message: "Logged in.",
			Data:    map[string]any{"user": session.UserID, "name": session.Name, "expiresAt": session.ExpiresAt},
		})
	}
	return httputil.Redirect(c, landingPath)
}

// Logout handles POST /cms/logout. An expired session still gets its cookie cleared.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if claims, err := h.tokens.Validate(auth.ExtractSessionToken(c.Request())); err == nil {
		h.service.Logout(c.Request().Context(), claims.UserID(), c.RealIP())
	}
	auth.ClearSessionCookie(c, h.cookies)
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(http.StatusOK, httputil.Result{Success: true, Message: "Logged out."})
	}
	httputil.SetFlash(c, httputil.FlashSuccess, "You have been logged out.")
	return httputil.Redirect(c, LoginPath)
}

// ChangePassword handles POST /cms/password behind RequireSession.
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, landingPath, domain.ErrPasswordMismatch)
	}
	if err := h.service.ChangePassword(c.Request().Context(), claims.UserID(), req.Current, req.Next, req.Confirmation, c.RealIP()); err != nil {
		return h.fail(c, landingPath, err)
	}
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(http.StatusOK, httputil.Result{Success: true, Message: "Password changed."})
	}
	httputil.SetFlash(c, httputil.FlashSuccess, "Password changed.")
	return httputil.Redirect(c, landingPath)
}

func (h *AuthHandlers) fail(c echo.Context, back string, err error) error {
	info := h.errors.Map(err)
	if info.Internal() {
		slog.Error("staff request failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(info.Status, httputil.Result{Success: false, Error: info.Message})
	}
	httputil.SetFlash(c, httputil.FlashError, info.Message)
	return httputil.Redirect(c, back)
}

// RegisterRoutes mounts the login endpoints on the CSRF-protected /cms group and the
// password change on the session group.
func RegisterRoutes(cms *echo.Group, session *echo.Group, h *AuthHandlers) {
	cms.GET("/login", h.LoginPage)
	cms.POST("/login", h.Login)
	cms.POST("/logout", h.Logout)
	session.POST("/password", h.ChangePassword)
}
