package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"menuCms/internal/modules/menus/application/usecase"
)

type errorBody struct {
	Error string `json:"error"`
}

// NewPublicMenuHandler serves GET /api?restaurant=&week=&preview=1 to the static pages.
func NewPublicMenuHandler(public *usecase.PublicMenuService) echo.HandlerFunc {
	mapper := publicErrors()
	return func(c echo.Context) error {
		switch c.Request().Method {
		case http.MethodOptions:
			return c.NoContent(http.StatusNoContent)
		case http.MethodGet, http.MethodHead:
		default:
			return c.JSON(http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		}

		query := usecase.PublicQuery{
			RestaurantID: c.QueryParam("restaurant"),
			Week:         c.QueryParam("week"),
			Preview:      isPreview(c.QueryParam("preview")),
		}
		out, err := public.Read(c.Request().Context(), query)
		if err != nil {
			info := mapper.Map(err)
			if info.Internal() {
				slog.Error("public menu read failed", slog.String("restaurant", query.RestaurantID), slog.String("week", query.Week), slog.Any("error", err))
			}
			return c.JSON(info.Status, errorBody{Error: info.Message})
		}
		c.Response().Header().Set("Cache-Control", "no-cache")
		return c.JSON(http.StatusOK, out)
	}
}

// PublicCORS allows the static pages on other origins to read the API; "*" by default.
func PublicCORS(allowedOrigins []string) echo.MiddlewareFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
		MaxAge:       86400,
	})
}
