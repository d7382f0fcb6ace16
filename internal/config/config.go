package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	NotionAPIKey       string
	NotionDatabaseID   string
	RevalidateInterval time.Duration
	FetchConcurrency   int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads an optional .env file, then the environment. Missing Notion
// settings are not an error here; the gateway reports them per request.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any environment lookup.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Port:             get("PORT", "8080"),
		NotionAPIKey:     get("NOTION_API_KEY", ""),
		NotionDatabaseID: get("NOTION_DATABASE_ID", ""),
		LogFormat:        get("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.RevalidateInterval, err = time.ParseDuration(get("REVALIDATE_INTERVAL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid REVALIDATE_INTERVAL: %w", err)
	}
	if cfg.RevalidateInterval < 0 {
		return nil, fmt.Errorf("invalid REVALIDATE_INTERVAL: must not be negative")
	}
	if cfg.FetchConcurrency, err = positiveInt(get("FETCH_CONCURRENCY", "8")); err != nil {
		return nil, fmt.Errorf("invalid FETCH_CONCURRENCY: %w", err)
	}
	if cfg.RateLimitPerMinute, err = positiveInt(get("RATE_LIMIT_PER_MINUTE", "500")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	for _, origin := range strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.NotionAPIKey == "" || cfg.NotionDatabaseID == "" {
		slog.Warn("Notion is not configured; /api/referrals will return 500",
			"api_key_set", cfg.NotionAPIKey != "",
			"database_id_set", cfg.NotionDatabaseID != "")
	}

	return cfg, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// Logger builds the process logger described by the config.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
