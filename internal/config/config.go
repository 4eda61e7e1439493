package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	restaurants "menuCms/internal/modules/restaurants/domain"
	"menuCms/internal/shared/normalization"
)

const (
	defaultPort            = "8080"
	defaultDataDir         = "./data"
	defaultLogDir          = "./logs"
	defaultTimezone        = "Europe/Prague"
	defaultCurrency        = "Kč"
	defaultMenuTopic       = "menus.events"
	defaultGroupID         = "menucms"
	defaultSessionLifetime = 8 * time.Hour
	defaultSendBuffer      = 16
	minJWTSecretLength     = 16
)

var ErrWeakJWTSecret = errors.New("JWT_SECRET must be at least 16 characters")

type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Storage   StorageConfig
	Menu      MenuConfig
	Kafka     KafkaConfig
	Websocket WebsocketConfig
}

type ServerConfig struct {
	Port string
	// AllowedOrigins feeds the public API CORS policy and the websocket origin check.
	AllowedOrigins []string
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type SecurityConfig struct {
	JWTSecret string
	// EphemeralSecret is set when JWT_SECRET was empty; sessions end on restart.
	EphemeralSecret bool
	SessionLifetime time.Duration
	CookieSecure    bool
	// AdminPassword seeds the default account on first start only.
	AdminPassword string
	BcryptCost    int
}

type StorageConfig struct {
	DataDir         string
	RestaurantsFile string
}

type MenuConfig struct {
	Location   *time.Location
	Timezone   string
	ClosedDays []restaurants.DayOfWeek
	Currency   string
}

type KafkaConfig struct {
	Brokers   []string
	GroupID   string
	MenuTopic string
}

// Enabled reports whether menu events go through Kafka instead of the in-process bus.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type WebsocketConfig struct {
	SendBuffer int
}

// Load reads the process environment. Call godotenv first to honour a local .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getenv("PORT", defaultPort),
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
		Logging: LoggingConfig{
			Directory: getenv("LOG_DIR", defaultLogDir),
			Level:     getenv("LOG_LEVEL", "info"),
			Format:    getenv("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{
			JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
			CookieSecure:  normalization.AsBool(os.Getenv("COOKIE_SECURE")),
			AdminPassword: os.Getenv("CMS_ADMIN_PASSWORD"),
			BcryptCost:    normalization.AsInt(os.Getenv("BCRYPT_COST")),
		},
		Storage: StorageConfig{
			DataDir: getenv("DATA_DIR", defaultDataDir),
		},
		Menu: MenuConfig{
			Timezone: getenv("MENU_TIMEZONE", defaultTimezone),
			Currency: getenv("MENU_CURRENCY", defaultCurrency),
		},
		Kafka: KafkaConfig{
			Brokers:   splitList(firstEnv("KAFKA_BROKERS", "KAFKA_BROKER")),
			GroupID:   getenv("KAFKA_GROUP_ID", defaultGroupID),
			MenuTopic: getenv("KAFKA_MENU_TOPIC", defaultMenuTopic),
		},
		Websocket: WebsocketConfig{
			SendBuffer: defaultSendBuffer,
		},
	}

	switch {
	case cfg.Security.JWTSecret == "":
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Security.JWTSecret = secret
		cfg.Security.EphemeralSecret = true
	case len(cfg.Security.JWTSecret) < minJWTSecretLength:
		return nil, ErrWeakJWTSecret
	}

	lifetime, err := parseDuration("SESSION_LIFETIME", defaultSessionLifetime)
	if err != nil {
		return nil, err
	}
	cfg.Security.SessionLifetime = lifetime

	cfg.Storage.RestaurantsFile = strings.TrimSpace(os.Getenv("RESTAURANTS_FILE"))
	if cfg.Storage.RestaurantsFile == "" {
		candidate := filepath.Join(cfg.Storage.DataDir, "restaurants.yaml")
		if _, err := os.Stat(candidate); err == nil {
			cfg.Storage.RestaurantsFile = candidate
		}
	}

	loc, err := time.LoadLocation(cfg.Menu.Timezone)
	if err != nil {
		return nil, fmt.Errorf("MENU_TIMEZONE %q: %w", cfg.Menu.Timezone, err)
	}
	cfg.Menu.Location = loc

	if raw, ok := os.LookupEnv("DEFAULT_CLOSED_DAYS"); ok {
		// An explicit empty value opens every day.
		cfg.Menu.ClosedDays = restaurants.NormalizeClosedDays(splitList(raw))
		if cfg.Menu.ClosedDays == nil {
			cfg.Menu.ClosedDays = []restaurants.DayOfWeek{}
		}
	}

	if raw := strings.TrimSpace(os.Getenv("WS_SEND_BUFFER")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("WS_SEND_BUFFER must be a positive integer, got %q", raw)
		}
		cfg.Websocket.SendBuffer = n
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration like 8h, got %q", key, raw)
	}
	return d, nil
}

// splitList parses comma or whitespace separated values, dropping blanks.
func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
