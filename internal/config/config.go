package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	CORSOrigins       string
	DatabaseDriver    string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	EventSubject      string
	JWTSecret         string
	JWTCookieName     string
	JWTTTL            time.Duration
	CookieSecure      bool
	ClassroomCacheTTL time.Duration
	LoginRateLimit    int
	LoginRateWindow   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MOONBASE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Moonbase API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.cors_origins", "*")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("events.subject", "moonbase.submissions")
	v.SetDefault("jwt.cookie_name", "access_token")
	v.SetDefault("jwt.ttl", "1h")
	v.SetDefault("cache.classroom_ttl", "5m")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")

	jwtTTL, err := parseDuration(v.GetString("jwt.ttl"), time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("cache.classroom_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid classroom cache ttl: %w", err)
	}

	rateWindow, err := parseDuration(v.GetString("auth.login_rate_window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid login rate window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		CORSOrigins:       v.GetString("app.cors_origins"),
		DatabaseDriver:    strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		EventSubject:      v.GetString("events.subject"),
		JWTSecret:         v.GetString("jwt.secret"),
		JWTCookieName:     v.GetString("jwt.cookie_name"),
		JWTTTL:            jwtTTL,
		CookieSecure:      v.GetBool("jwt.cookie_secure"),
		ClassroomCacheTTL: cacheTTL,
		LoginRateLimit:    v.GetInt("auth.login_rate_limit"),
		LoginRateWindow:   rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
