package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"matchboard/utils"
)

// Config holds all configuration values for the server, bot and workers.
type Config struct {
	// HTTP
	ListenAddr     string
	AllowedOrigins string
	CookieSecure   bool

	// Database
	DatabaseURL string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Machine API used by the chat bot integration
	BotAPIToken string

	// Discord
	DiscordBotToken    string
	DiscordClientID    string
	DiscordRedirectURL string

	// Avatars
	R2 utils.R2Options

	// Workers
	DispatchInterval time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:         getEnvOrDefault("LISTEN_ADDR", ":3000"),
		AllowedOrigins:     getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		BotAPIToken:        os.Getenv("BOT_API_TOKEN"),
		DiscordBotToken:    os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordClientID:    os.Getenv("DISCORD_CLIENT_ID"),
		DiscordRedirectURL: os.Getenv("DISCORD_REDIRECT_URL"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		R2: utils.R2Options{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
	}

	secure, err := strconv.ParseBool(getEnvOrDefault("COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	cfg.CookieSecure = secure

	ttlHours, err := strconv.Atoi(getEnvOrDefault("SESSION_TTL_HOURS", "168"))
	if err != nil || ttlHours <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %q", os.Getenv("SESSION_TTL_HOURS"))
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	interval, err := strconv.Atoi(getEnvOrDefault("NOTIFICATION_DISPATCH_INTERVAL_SECONDS", "30"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid NOTIFICATION_DISPATCH_INTERVAL_SECONDS: %q", os.Getenv("NOTIFICATION_DISPATCH_INTERVAL_SECONDS"))
	}
	cfg.DispatchInterval = time.Duration(interval) * time.Second

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgresql://") &&
		!strings.HasPrefix(cfg.DatabaseURL, "sqlite:") {
		return nil, fmt.Errorf("DATABASE_URL must start with postgres:// or sqlite:")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto slog, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DiscordOAuthEnabled reports whether the Discord sign-in flow can be offered.
func (c *Config) DiscordOAuthEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordRedirectURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
