package cache

import (
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Store is a cache that can also be inspected, cleared and closed.
type Store interface {
	TranslationCache
	Maintainer
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	Backend    string        // "memory" (default), "redis" or "sqlite"
	TTL        time.Duration // Entry lifetime (0 = never expire)
	RedisURL   string        // Required for the redis backend
	KeyPrefix  string        // Redis key prefix
	SQLitePath string        // Required for the sqlite backend
}

// Open builds the backend described by cfg.
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		return NewInMemoryCacheWithTTL(cfg.TTL), nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis cache requires a URL")
		}
		c, err := NewRedisCache(RedisConfig{
			URL:       cfg.RedisURL,
			TTL:       cfg.TTL,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite cache requires a path")
		}
		c, err := NewSQLiteCache(cfg.SQLitePath, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
