package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_DIR", "TIMEZONE", "RECENCY_WINDOW_HOURS", "BATCH_INTERVAL_MINUTES",
		"SITE_WORKERS", "NEWS_RENDERER", "BROWSER_URL", "DB_PATH",
		"REDIS_ADDR", "REDIS_DB", "REDIS_STREAM", "REDIS_STREAM_COUNT",
		"REDIS_STREAM_MAX_LENGTH", "MEMCACHE_ADDR", "FETCH_BLOCK_SECONDS",
		"NEWS_ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := LoadConfig()
	assert.Equal(t, "config/sites", cfg.ConfigDir)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 25*time.Hour, cfg.RecencyWindow)
	assert.Equal(t, 30*time.Minute, cfg.BatchInterval)
	assert.Equal(t, 3, cfg.SiteWorkers)
	assert.Equal(t, RendererBrowser, cfg.Renderer)
	assert.Equal(t, "news.db", cfg.DBPath)
	assert.Equal(t, "articles", cfg.RedisStream)
	assert.Equal(t, 300*time.Second, cfg.FetchBlockTime)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_DIR", "/etc/news/sites")
	t.Setenv("TIMEZONE", "Asia/Seoul")
	t.Setenv("RECENCY_WINDOW_HOURS", "48")
	t.Setenv("SITE_WORKERS", "8")
	t.Setenv("NEWS_RENDERER", "http")

	cfg := LoadConfig()
	assert.Equal(t, "/etc/news/sites", cfg.ConfigDir)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, 48*time.Hour, cfg.RecencyWindow)
	assert.Equal(t, 8, cfg.SiteWorkers)
	assert.Equal(t, RendererHTTP, cfg.Renderer)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MalformedIntFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SITE_WORKERS", "lots")

	cfg := LoadConfig()
	assert.Equal(t, 3, cfg.SiteWorkers)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() Config {
		return Config{
			ConfigDir:     "config/sites",
			Timezone:      "UTC",
			RecencyWindow: 25 * time.Hour,
			BatchInterval: 30 * time.Minute,
			SiteWorkers:   3,
			Renderer:      RendererBrowser,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty config dir", func(c *Config) { c.ConfigDir = "" }},
		{"unknown renderer", func(c *Config) { c.Renderer = "carrier-pigeon" }},
		{"zero workers", func(c *Config) { c.SiteWorkers = 0 }},
		{"negative recency window", func(c *Config) { c.RecencyWindow = -time.Hour }},
		{"zero batch interval", func(c *Config) { c.BatchInterval = 0 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Asia/Seoul"
	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Asia/Seoul", loc.String())
}
