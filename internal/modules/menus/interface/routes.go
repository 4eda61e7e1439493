package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"menuCms/internal/modules/menus/application/usecase"
	"menuCms/internal/modules/menus/infrastructure"
)

// RegisterPublic mounts the read-only API used by the static menu pages.
func RegisterPublic(e *echo.Echo, public *usecase.PublicMenuService, allowedOrigins []string) {
	handler := NewPublicMenuHandler(public)
	cors := PublicCORS(allowedOrigins)
	e.Any("/api", handler, cors)
	e.Any("/api/menu", handler, cors)
}

// RegisterHealth mounts the liveness probe.
func RegisterHealth(e *echo.Echo, hub *infrastructure.Hub) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"wsClients": hub.ClientCount(),
		})
	})
}

// RegisterEditor mounts the menu editor on a group that already requires a session and CSRF.
func RegisterEditor(g *echo.Group, h *EditorHandlers) {
	g.GET("/restaurants", h.Restaurants)
	g.GET("/menu", h.View)
	g.POST("/menu", h.Submit)
	g.POST("/menu/publish", h.Publish)
	g.GET("/menu/copy", h.Copy)
	g.POST("/menu/copy", h.Copy)
}

// RegisterLive mounts the websocket stream on a session-protected group.
func RegisterLive(g *echo.Group, handler echo.HandlerFunc) {
	g.GET("/menus/:restaurant", handler)
	g.GET("/menus", handler)
}
