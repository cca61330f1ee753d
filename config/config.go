package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration for the team operations service.
type Config struct {
	DatabaseURL    string
	JWTSecret      string
	ServiceToken   string
	Port           string
	AllowedOrigins []string
	LogLevel       string
	CookieSecure   bool

	RedisURL         string
	ScoutingCacheTTL time.Duration

	DDragonBaseURL      string
	DDragonLocale       string
	CatalogSyncInterval time.Duration

	R2 R2Config

	AdminEmail    string
	AdminPassword string
}

// R2Config configures the S3-compatible bucket used for report exports.
// Exports are disabled when Bucket is empty.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether enough settings are present to talk to the bucket.
func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccountID != ""
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ServiceToken:   os.Getenv("SERVICE_TOKEN"),
		Port:           os.Getenv("PORT"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		CookieSecure:   os.Getenv("COOKIE_SECURE") == "1",
		RedisURL:       os.Getenv("REDIS_URL"),
		DDragonBaseURL: os.Getenv("DDRAGON_BASE_URL"),
		DDragonLocale:  os.Getenv("DDRAGON_LOCALE"),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ServiceToken == "" {
		return nil, fmt.Errorf("SERVICE_TOKEN is required")
	}

	if cfg.Port == "" {
		cfg.Port = "5200"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DDragonBaseURL == "" {
		cfg.DDragonBaseURL = "https://ddragon.leagueoflegends.com"
	}
	if cfg.DDragonLocale == "" {
		cfg.DDragonLocale = "en_US"
	}

	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	var err error
	if cfg.ScoutingCacheTTL, err = durationEnv("SCOUTING_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CatalogSyncInterval, err = durationEnv("CATALOG_SYNC_INTERVAL", 6*time.Hour); err != nil {
		return nil, err
	}

	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// splitList splits a comma-separated list and trims spaces from each entry.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
