package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Renderer kinds selectable via NEWS_RENDERER
const (
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// Config represents the application configuration
type Config struct {
	// Site configuration directory (one JSON file per site)
	ConfigDir string

	// Timezone for date normalization and the recency cutoff
	Timezone string

	// Admission window; wider than the nominal 24h business rule to
	// absorb timezone and parsing skew at the boundary
	RecencyWindow time.Duration

	// Batch scheduling
	BatchInterval time.Duration
	SiteWorkers   int

	// Rendering
	Renderer           string
	BrowserURL         string
	NavigationTimeout  time.Duration
	ContentTimeout     time.Duration
	NetworkIdleTimeout time.Duration
	GraceDelay         time.Duration

	// Persistence
	DBPath string

	// Redis configuration (admitted-article notifications)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (HTTP fetch rate-limit guard)
	MemcacheAddr   string
	FetchBlockTime time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		ConfigDir:            getEnv("CONFIG_DIR", "config/sites"),
		Timezone:             getEnv("TIMEZONE", "UTC"),
		RecencyWindow:        getEnvDuration("RECENCY_WINDOW_HOURS", 25, time.Hour),
		BatchInterval:        getEnvDuration("BATCH_INTERVAL_MINUTES", 30, time.Minute),
		SiteWorkers:          getEnvInt("SITE_WORKERS", 3),
		Renderer:             getEnv("NEWS_RENDERER", RendererBrowser),
		BrowserURL:           getEnv("BROWSER_URL", ""),
		NavigationTimeout:    getEnvDuration("NAV_TIMEOUT_SECONDS", 45, time.Second),
		ContentTimeout:       getEnvDuration("CONTENT_TIMEOUT_SECONDS", 15, time.Second),
		NetworkIdleTimeout:   getEnvDuration("NETWORK_IDLE_SECONDS", 5, time.Second),
		GraceDelay:           getEnvDuration("GRACE_DELAY_SECONDS", 1, time.Second),
		DBPath:               getEnv("DB_PATH", "news.db"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "articles"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 500),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		FetchBlockTime:       getEnvDuration("FETCH_BLOCK_SECONDS", 300, time.Second),
		Environment:          getEnv("NEWS_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ConfigDir == "" {
		return fmt.Errorf("config dir must not be empty")
	}
	if c.Renderer != RendererHTTP && c.Renderer != RendererBrowser {
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	if c.SiteWorkers < 1 {
		return fmt.Errorf("site workers must be at least 1, got %d", c.SiteWorkers)
	}
	if c.RecencyWindow <= 0 {
		return fmt.Errorf("recency window must be positive, got %s", c.RecencyWindow)
	}
	if c.BatchInterval <= 0 {
		return fmt.Errorf("batch interval must be positive, got %s", c.BatchInterval)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration retrieves a duration expressed as an integer count of unit
func getEnvDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * unit
}
