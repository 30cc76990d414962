package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/lingoq"
	"github.com/ZaguanLabs/lingoq/cache"
	"github.com/ZaguanLabs/lingoq/config"
	"github.com/ZaguanLabs/lingoq/logging"
	"github.com/ZaguanLabs/lingoq/provider"
	"go.uber.org/zap"
)

// app bundles the long-lived pieces every command builds from config.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  cache.Store
	coord  *lingoq.Coordinator
}

func loadConfig(path string, dryRun bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dryRun {
		cfg.Provider.Type = "mock"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("init cache: %w", err)
	}

	coord := lingoq.NewCoordinator(newProvider(cfg, logger),
		lingoq.WithCache(store),
		lingoq.WithLogger(logger),
		lingoq.WithSourceLang(cfg.SourceLang),
		lingoq.WithCooldown(cfg.Queue.Cooldown),
		lingoq.WithThrottle(cfg.Queue.Throttle),
		lingoq.WithMaxAttempts(cfg.Queue.MaxAttempts),
		lingoq.WithCallTimeout(cfg.Queue.CallTimeout),
	)

	logger.Debug("Coordinator ready",
		zap.String("provider", cfg.Provider.Type),
		zap.String("cache", cfg.Cache.Backend),
		zap.Duration("cooldown", cfg.Queue.Cooldown),
	)

	return &app{cfg: cfg, logger: logger, store: store, coord: coord}, nil
}

func openStore(cfg *config.Config) (cache.Store, error) {
	return cache.Open(cache.Config{
		Backend:    cfg.Cache.Backend,
		TTL:        cfg.Cache.TTL,
		RedisURL:   cfg.Cache.RedisURL,
		KeyPrefix:  cfg.Cache.KeyPrefix,
		SQLitePath: cfg.Cache.SQLitePath,
	})
}

func newProvider(cfg *config.Config, logger *zap.Logger) lingoq.AIProvider {
	var p lingoq.AIProvider
	if strings.EqualFold(cfg.Provider.Type, "mock") {
		p = provider.NewMockProvider()
		logger.Info("Using mock translation provider")
	} else {
		op := provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:      cfg.Provider.APIKey,
			Model:       cfg.Provider.Model,
			Temperature: cfg.Provider.Temperature,
			BaseURL:     cfg.Provider.BaseURL,
			Context:     cfg.Provider.Context,
			UserAgent:   lingoq.UserAgent(),
		})
		logger.Info("Using OpenAI translation provider",
			zap.String("model", op.Model()),
			zap.String("base_url", cfg.Provider.BaseURL),
		)
		p = op
	}

	if cfg.Provider.RequestsPerMinute > 0 {
		p = lingoq.NewRateLimitedProvider(p, lingoq.RateLimitConfig{
			RequestsPerMinute: cfg.Provider.RequestsPerMinute,
		})
	}
	return p
}

// Close stops the coordinator, resolving anything still queued, and then
// releases the cache.
func (a *app) Close() error {
	err := errors.Join(a.coord.Close(), a.store.Close())
	a.logger.Sync()
	return err
}
