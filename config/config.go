// Package config loads lingoq settings from YAML, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/lingoq"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all lingoq configuration.
type Config struct {
	Listen     string         `yaml:"listen"`
	SourceLang string         `yaml:"source_lang"`
	Queue      QueueConfig    `yaml:"queue"`
	Cache      CacheConfig    `yaml:"cache"`
	Provider   ProviderConfig `yaml:"provider"`
	Log        LogConfig      `yaml:"log"`
}

// QueueConfig tunes the translation coordinator.
type QueueConfig struct {
	Cooldown    time.Duration `yaml:"cooldown"`
	Throttle    time.Duration `yaml:"throttle"`
	MaxAttempts int           `yaml:"max_attempts"`
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// CacheConfig selects the translation cache backend.
// Backend is "memory" (default), "redis" or "sqlite".
type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	TTL        time.Duration `yaml:"ttl"`
	RedisURL   string        `yaml:"redis_url"`
	KeyPrefix  string        `yaml:"key_prefix"`
	SQLitePath string        `yaml:"sqlite_path"`
}

// ProviderConfig defines the upstream translation model.
// Type is "openai" (default) or "mock".
type ProviderConfig struct {
	Type              string  `yaml:"type"`
	APIKey            string  `yaml:"api_key"`
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	Temperature       float32 `yaml:"temperature"`
	Context           string  `yaml:"context"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:     ":8080",
		SourceLang: lingoq.DefaultSourceLang,
		Queue: QueueConfig{
			Cooldown:    lingoq.DefaultCooldown,
			Throttle:    lingoq.DefaultThrottle,
			MaxAttempts: lingoq.DefaultMaxAttempts,
			CallTimeout: lingoq.DefaultCallTimeout,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			KeyPrefix:  "lingoq:",
			SQLitePath: "lingoq.db",
		},
		Provider: ProviderConfig{
			Type:        "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LINGOQ_* variables. OPENAI_API_KEY is
// honoured when no key is configured otherwise.
func applyEnv(cfg *Config) error {
	cfg.Listen = getEnv("LINGOQ_LISTEN", cfg.Listen)
	cfg.SourceLang = getEnv("LINGOQ_SOURCE_LANG", cfg.SourceLang)

	cfg.Cache.Backend = getEnv("LINGOQ_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisURL = getEnv("LINGOQ_REDIS_URL", cfg.Cache.RedisURL)
	cfg.Cache.KeyPrefix = getEnv("LINGOQ_CACHE_PREFIX", cfg.Cache.KeyPrefix)
	cfg.Cache.SQLitePath = getEnv("LINGOQ_SQLITE_PATH", cfg.Cache.SQLitePath)

	cfg.Provider.Type = getEnv("LINGOQ_PROVIDER", cfg.Provider.Type)
	cfg.Provider.Model = getEnv("LINGOQ_MODEL", cfg.Provider.Model)
	cfg.Provider.BaseURL = getEnv("LINGOQ_BASE_URL", cfg.Provider.BaseURL)
	cfg.Provider.APIKey = getEnv("LINGOQ_API_KEY", cfg.Provider.APIKey)
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg.Log.Level = getEnv("LINGOQ_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LINGOQ_LOG_FORMAT", cfg.Log.Format)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"LINGOQ_COOLDOWN", &cfg.Queue.Cooldown},
		{"LINGOQ_THROTTLE", &cfg.Queue.Throttle},
		{"LINGOQ_CALL_TIMEOUT", &cfg.Queue.CallTimeout},
		{"LINGOQ_CACHE_TTL", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: d.key, Message: err.Error()}
		}
		*d.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"LINGOQ_MAX_ATTEMPTS", &cfg.Queue.MaxAttempts},
		{"LINGOQ_REQUESTS_PER_MINUTE", &cfg.Provider.RequestsPerMinute},
	}
	for _, n := range ints {
		v := os.Getenv(n.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: n.key, Message: "must be an integer"}
		}
		*n.dst = parsed
	}

	return nil
}

// Validate checks the configuration for settings the service cannot run with.
func (c *Config) Validate() error {
	if c.SourceLang == "" {
		return &ConfigError{Field: "source_lang", Message: "is required"}
	}

	if c.Queue.Cooldown < 0 || c.Queue.Throttle < 0 || c.Queue.CallTimeout < 0 {
		return &ConfigError{Field: "queue", Message: "durations must not be negative"}
	}
	if c.Queue.MaxAttempts < 0 {
		return &ConfigError{Field: "queue.max_attempts", Message: "must not be negative"}
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return &ConfigError{Field: "cache.redis_url", Message: "is required for the redis backend"}
		}
	case "sqlite":
		if c.Cache.SQLitePath == "" {
			return &ConfigError{Field: "cache.sqlite_path", Message: "is required for the sqlite backend"}
		}
	default:
		return &ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q", c.Cache.Backend)}
	}

	switch strings.ToLower(c.Provider.Type) {
	case "", "openai":
		if c.Provider.APIKey == "" {
			return &ConfigError{Field: "provider.api_key", Message: "is required (or set OPENAI_API_KEY)"}
		}
	case "mock":
	default:
		return &ConfigError{Field: "provider.type", Message: fmt.Sprintf("unknown provider %q", c.Provider.Type)}
	}
	if c.Provider.RequestsPerMinute < 0 {
		return &ConfigError{Field: "provider.requests_per_minute", Message: "must not be negative"}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return &ConfigError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
