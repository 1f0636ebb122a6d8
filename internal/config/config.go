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
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	TokenTTL          time.Duration
	DashboardCacheTTL time.Duration
	SendgridAPIKey    string
	MailFromName      string
	MailFromAddress   string
	PortalURL         string
	SeedEnabled       bool
	SeedToken         string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ASSESSADMIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "AssessAdmin API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("mail.from_name", "AssessAdmin")

	tokenTTL, err := parseDuration(v.GetString("token.ttl"), "24h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		TokenTTL:          tokenTTL,
		DashboardCacheTTL: cacheTTL,
		SendgridAPIKey:    v.GetString("sendgrid.api_key"),
		MailFromName:      v.GetString("mail.from_name"),
		MailFromAddress:   v.GetString("mail.from_address"),
		PortalURL:         v.GetString("portal.url"),
		SeedEnabled:       v.GetBool("seed.enabled"),
		SeedToken:         v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}
