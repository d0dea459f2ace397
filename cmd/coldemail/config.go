package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sheetsprojectsofficial/coldemail/crawl"
	"github.com/sheetsprojectsofficial/coldemail/gemini"
	coldemailhttp "github.com/sheetsprojectsofficial/coldemail/http"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig.
const (
	envSearchAPIKey   = "GOOGLE_SEARCH_API_KEY"
	envSearchEngineID = "GOOGLE_SEARCH_ENGINE_ID"
	envGeminiAPIKey   = "GEMINI_API_KEY"
	envDatabasePath   = "COLDEMAIL_DB"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Search   SearchConfig   `yaml:"search"`
	AI       AIConfig       `yaml:"ai"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// FetchConfig configures page retrieval.
type FetchConfig struct {
	Timeout        Duration `yaml:"timeout"`
	UserAgent      string   `yaml:"user_agent"`
	MaxRedirects   int      `yaml:"max_redirects"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	RespectRobots  bool     `yaml:"respect_robots"`
	RobotsCacheTTL Duration `yaml:"robots_cache_ttl"`
}

// CrawlConfig bounds each run.
type CrawlConfig struct {
	Delay          Duration `yaml:"delay"`
	HostInterval   Duration `yaml:"host_interval"`
	MaxURLs        int      `yaml:"max_urls"`
	MaxChildLinks  int      `yaml:"max_child_links"`
	EmailThreshold int      `yaml:"email_threshold"`
}

// SearchConfig configures candidate resolution.
type SearchConfig struct {
	APIKey        string   `yaml:"api_key"`
	EngineID      string   `yaml:"engine_id"`
	Fallback      bool     `yaml:"fallback"`
	Timeout       Duration `yaml:"timeout"`
	Limit         int      `yaml:"limit"`
	MaxCandidates int      `yaml:"max_candidates"`
}

// Enabled reports whether the Custom Search API is configured.
func (c SearchConfig) Enabled() bool {
	return c.APIKey != "" && c.EngineID != ""
}

// AIConfig configures the Gemini extraction strategy.
type AIConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	MaxChars int    `yaml:"max_chars"`
}

// DatabaseConfig configures report storage. An empty path disables it.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig selects log verbosity and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: DurationFrom(10 * time.Second),
		},
		Fetch: FetchConfig{
			Timeout:        DurationFrom(coldemailhttp.DefaultFetchTimeout),
			UserAgent:      coldemailhttp.DefaultUserAgent,
			MaxRedirects:   coldemailhttp.DefaultMaxRedirects,
			MaxBodyBytes:   coldemailhttp.DefaultMaxBodyBytes,
			RespectRobots:  false,
			RobotsCacheTTL: DurationFrom(coldemailhttp.DefaultRobotsCacheTTL),
		},
		Crawl: CrawlConfig{
			Delay:          DurationFrom(crawl.DefaultDelay),
			HostInterval:   DurationFrom(crawl.DefaultDelay),
			MaxURLs:        crawl.DefaultMaxURLs,
			MaxChildLinks:  crawl.DefaultMaxChildLinks,
			EmailThreshold: crawl.DefaultEmailThreshold,
		},
		Search: SearchConfig{
			Fallback:      true,
			Timeout:       DurationFrom(crawl.DefaultSearchTimeout),
			Limit:         crawl.DefaultSearchLimit,
			MaxCandidates: crawl.DefaultMaxCandidates,
		},
		AI: AIConfig{
			Model:    gemini.DefaultModel,
			MaxChars: gemini.DefaultMaxChars,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path (if
// not empty) and secrets from the environment.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer fh.Close()
		if err := decodeYAML(fh, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(getenv)
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(envSearchAPIKey); v != "" {
		c.Search.APIKey = v
	}
	if v := getenv(envSearchEngineID); v != "" {
		c.Search.EngineID = v
	}
	if v := getenv(envGeminiAPIKey); v != "" {
		c.AI.APIKey = v
	}
	if v := getenv(envDatabasePath); v != "" {
		c.Database.Path = v
	}
}

func (c *Config) normalise() {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	c.Search.APIKey = strings.TrimSpace(c.Search.APIKey)
	c.Search.EngineID = strings.TrimSpace(c.Search.EngineID)
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	c.AI.Model = strings.TrimSpace(c.AI.Model)
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate enforces the configuration invariants.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if c.Fetch.Timeout.Duration <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0 (got %s)", c.Fetch.Timeout)
	}
	if c.Fetch.UserAgent == "" {
		return errors.New("fetch.user_agent must be set")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must be >= 0 (got %d)", c.Fetch.MaxRedirects)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be > 0 (got %d)", c.Fetch.MaxBodyBytes)
	}
	if c.Crawl.Delay.Duration < 0 || c.Crawl.HostInterval.Duration < 0 {
		return errors.New("crawl.delay and crawl.host_interval must be >= 0")
	}
	if c.Crawl.MaxURLs <= 0 {
		return fmt.Errorf("crawl.max_urls must be > 0 (got %d)", c.Crawl.MaxURLs)
	}
	if c.Crawl.MaxChildLinks <= 0 {
		return fmt.Errorf("crawl.max_child_links must be > 0 (got %d)", c.Crawl.MaxChildLinks)
	}
	if c.Crawl.EmailThreshold <= 0 {
		return fmt.Errorf("crawl.email_threshold must be > 0 (got %d)", c.Crawl.EmailThreshold)
	}
	if (c.Search.APIKey == "") != (c.Search.EngineID == "") {
		return fmt.Errorf("search requires both %s and %s", envSearchAPIKey, envSearchEngineID)
	}
	if c.Search.Timeout.Duration <= 0 || c.Search.Timeout.Duration > crawl.DefaultSearchTimeout {
		return fmt.Errorf("search.timeout must be in (0, %s] (got %s)", crawl.DefaultSearchTimeout, c.Search.Timeout)
	}
	if c.Search.Limit <= 0 || c.Search.MaxCandidates <= 0 {
		return errors.New("search.limit and search.max_candidates must be > 0")
	}
	if c.AI.MaxChars <= 0 {
		return fmt.Errorf("ai.max_chars must be > 0 (got %d)", c.AI.MaxChars)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

// Duration wraps time.Duration to support human-readable YAML values.
type Duration struct {
	time.Duration
}

// DurationFrom creates a Duration from a standard time.Duration.
func DurationFrom(d time.Duration) Duration {
	return Duration{Duration: d}
}

// MarshalYAML emits durations as strings.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// UnmarshalYAML accepts either a duration string or numeric seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		d.Duration = parsed
	case int:
		d.Duration = time.Duration(v) * time.Second
	case float64:
		d.Duration = time.Duration(v * float64(time.Second))
	default:
		return fmt.Errorf("unsupported duration type %T", raw)
	}
	return nil
}
