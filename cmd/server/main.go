package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"menuCms/internal/config"
	"menuCms/internal/modules/menus/application/handler"
	"menuCms/internal/modules/menus/application/port"
	menususecase "menuCms/internal/modules/menus/application/usecase"
	menusdomain "menuCms/internal/modules/menus/domain"
	"menuCms/internal/modules/menus/infrastructure"
	menustransport "menuCms/internal/modules/menus/interface"
	restaurantsinfra "menuCms/internal/modules/restaurants/infrastructure"
	staffusecase "menuCms/internal/modules/staff/application/usecase"
	staffinfra "menuCms/internal/modules/staff/infrastructure"
	stafftransport "menuCms/internal/modules/staff/interface"
	"menuCms/internal/platform/broker"
	"menuCms/internal/shared/auth"
	"menuCms/internal/shared/httputil"
	"menuCms/internal/shared/logging"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger, logWriter, logFile, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
		Directory: cfg.Logging.Directory,
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	log.SetOutput(logWriter)
	log.SetFlags(0)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	err = run(cfg, logWriter)
	if err != nil {
		slog.Error("menu cms stopped", slog.Any("error", err))
	}
	if cerr := logFile.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "log file close error: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// run wires the services and serves until a signal or a server failure.
// Every deferred cleanup has finished by the time it returns.
func run(cfg *config.Config, logWriter io.Writer) error {
	if cfg.Security.EphemeralSecret {
		slog.Warn("JWT_SECRET not set, using a random secret; sessions end on restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, err := restaurantsinfra.LoadCatalog(cfg.Storage.RestaurantsFile)
	if err != nil {
		return fmt.Errorf("load restaurant catalog: %w", err)
	}

	settings := menusdomain.DefaultSettings()
	if cfg.Menu.ClosedDays != nil {
		settings.ClosedDays = cfg.Menu.ClosedDays
	}
	settings.Currency = cfg.Menu.Currency
	clock := menusdomain.NewClock(cfg.Menu.Location, nil)

	store := infrastructure.NewJSONStore(cfg.Storage.DataDir)
	activity := infrastructure.NewActivityLog(cfg.Storage.DataDir)
	users := staffinfra.NewUsersFile(cfg.Storage.DataDir)
	if err := users.EnsureDefaultAdmin(ctx, cfg.Security.AdminPassword, cfg.Security.BcryptCost); err != nil {
		return fmt.Errorf("set up users file %s: %w", users.Path(), err)
	}

	hub := infrastructure.NewHub()
	registry := infrastructure.NewHandlerRegistry()
	for _, h := range handler.MenuChangedHandlers(hub) {
		registry.Register(h)
	}

	var events port.EventPublisher
	if cfg.Kafka.Enabled() {
		publisher := infrastructure.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.MenuTopic)
		defer publisher.Close()
		events = publisher
		consumers := broker.StartMenuConsumers(ctx, broker.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topics:  []string{cfg.Kafka.MenuTopic},
		}, registry)
		slog.Info("menu events via kafka", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.MenuTopic), slog.String("group", cfg.Kafka.GroupID), slog.Int("consumers", consumers))
	} else {
		events = infrastructure.NewLocalPublisher(registry)
		slog.Info("menu events in process")
	}

	// Use cases
	menus := menususecase.NewMenuService(store, activity, events, catalog, settings, clock)
	public := menususecase.NewPublicMenuService(menus)
	tokens := auth.NewSessionTokens(cfg.Security.JWTSecret, cfg.Security.SessionLifetime)
	authService := staffusecase.NewAuthService(users, tokens, activity, cfg.Security.BcryptCost)
	cookies := auth.CookieSettings{Secure: cfg.Security.CookieSecure, Path: "/"}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(logWriter)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	menustransport.RegisterPublic(e, public, cfg.Server.AllowedOrigins)
	menustransport.RegisterHealth(e, hub)

	cms := e.Group("/cms", httputil.CSRF(cfg.Security.CookieSecure))
	session := cms.Group("", auth.RequireSession(tokens, cookies))
	stafftransport.RegisterRoutes(cms, session, stafftransport.NewAuthHandlers(authService, tokens, cookies))
	menustransport.RegisterEditor(session, menustransport.NewEditorHandlers(menus))

	live := e.Group("/ws", auth.RequireSession(tokens, cookies))
	menustransport.RegisterLive(live, menustransport.NewLiveMenuHandler(hub, catalog, menustransport.LiveOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SendBuffer:     cfg.Websocket.SendBuffer,
	}))

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()
	slog.Info("menu cms started", slog.String("port", cfg.Server.Port), slog.String("dataDir", cfg.Storage.DataDir), slog.Int("restaurants", len(catalog.All())))

	// Wait for a signal or a server failure.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	cancel()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", slog.Any("error", err))
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}
