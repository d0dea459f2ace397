package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	main "github.com/sheetsprojectsofficial/coldemail/cmd/coldemail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := main.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Crawl.Delay.Duration)
	assert.Equal(t, 20, cfg.Crawl.MaxURLs)
	assert.Equal(t, 3, cfg.Crawl.MaxChildLinks)
	assert.Equal(t, 10, cfg.Crawl.EmailThreshold)
	assert.False(t, cfg.Search.Enabled())
	assert.Empty(t, cfg.Database.Path)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("overlays yaml on defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
server:
  addr: ":9090"
crawl:
  delay: 250ms
  max_urls: 5
fetch:
  timeout: 3
  respect_robots: true
log:
  level: DEBUG
  format: json
`)

		cfg, err := main.LoadConfig(path, nil)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, 250*time.Millisecond, cfg.Crawl.Delay.Duration)
		assert.Equal(t, 5, cfg.Crawl.MaxURLs)
		assert.Equal(t, 3, cfg.Crawl.MaxChildLinks)
		assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout.Duration)
		assert.True(t, cfg.Fetch.RespectRobots)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("reads secrets from the environment", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{
			"GOOGLE_SEARCH_API_KEY":   "key",
			"GOOGLE_SEARCH_ENGINE_ID": "cx",
			"GEMINI_API_KEY":          "gem",
			"COLDEMAIL_DB":            "/tmp/reports.db",
		}

		cfg, err := main.LoadConfig("", func(k string) string { return env[k] })

		require.NoError(t, err)
		assert.True(t, cfg.Search.Enabled())
		assert.Equal(t, "gem", cfg.AI.APIKey)
		assert.Equal(t, "/tmp/reports.db", cfg.Database.Path)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(writeConfig(t, ""), nil)

		require.NoError(t, err)
		assert.Equal(t, main.DefaultConfig(), *cfg)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "crawl:\n  max_depth: 3\n"), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode config")
	})

	t.Run("rejects bad durations", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "crawl:\n  delay: soon\n"), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})

	t.Run("rejects partial search credentials", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{"GOOGLE_SEARCH_API_KEY": "key"}

		_, err := main.LoadConfig("", func(k string) string { return env[k] })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "GOOGLE_SEARCH_ENGINE_ID")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*main.Config)
		want   string
	}{
		{"max urls", func(c *main.Config) { c.Crawl.MaxURLs = 0 }, "crawl.max_urls"},
		{"child links", func(c *main.Config) { c.Crawl.MaxChildLinks = -1 }, "crawl.max_child_links"},
		{"threshold", func(c *main.Config) { c.Crawl.EmailThreshold = 0 }, "crawl.email_threshold"},
		{"search timeout above cap", func(c *main.Config) { c.Search.Timeout = main.DurationFrom(time.Minute) }, "search.timeout"},
		{"log level", func(c *main.Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log format", func(c *main.Config) { c.Log.Format = "xml" }, "log.format"},
		{"user agent", func(c *main.Config) { c.Fetch.UserAgent = "" }, "fetch.user_agent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := main.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
