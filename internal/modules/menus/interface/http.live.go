package transport

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"menuCms/internal/modules/menus/domain"
	"menuCms/internal/modules/menus/infrastructure"
	restaurants "menuCms/internal/modules/restaurants/domain"
)

// LiveOptions tunes the editor live-update socket.
type LiveOptions struct {
	AllowedOrigins []string
	SendBuffer     int
}

// NewLiveMenuHandler exposes /ws/menus/:restaurant. Editors get menu change
// notifications for one restaurant, or for all of them with "*" or "all".
func NewLiveMenuHandler(hub *infrastructure.Hub, catalog *restaurants.Catalog, opts LiveOptions) echo.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: originChecker(opts.AllowedOrigins),
	}
	return func(c echo.Context) error {
		scope := strings.ToLower(strings.TrimSpace(c.Param("restaurant")))
		var subscriptions []string
		switch scope {
		case "", infrastructure.AllRestaurants, "all":
			scope = infrastructure.AllRestaurants
			subscriptions = []string{infrastructure.AllRestaurants}
		default:
			resto, err := catalog.Lookup(scope)
			if err != nil {
				return echo.NewHTTPError(http.StatusNotFound, "unknown restaurant")
			}
			scope = resto.ID
			subscriptions = []string{resto.ID}
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("menu ws upgrade failed", slog.String("restaurant", scope), slog.String("ip", c.RealIP()), slog.Any("error", err))
			return err
		}

		actor := actorFrom(c)
		client := infrastructure.NewClient(hub, conn, ulid.Make().String(), actor.UserID, opts.SendBuffer)
		hub.AttachClient(client, subscriptions)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  "system.connected",
			Entity: "system",
			Action: "connected",
			Metadata: map[string]string{
				"clientId":   client.ID(),
				"restaurant": scope,
				"userId":     actor.UserID,
			},
			Data: map[string]any{
				"restaurants": subscriptions,
			},
			Timestamp: time.Now().UTC(),
		})
		slog.Info("menu ws connected", slog.String("clientId", client.ID()), slog.String("restaurant", scope), slog.String("userId", actor.UserID))
		return nil
	}
}

// originChecker accepts same-host requests, then the configured origins; "*" accepts any.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}
