// Package app wires configuration and shared components for the binaries.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"catalog-assistant/internal/assistant"
	"catalog-assistant/internal/cache"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/chat"
	"catalog-assistant/internal/config"
	"catalog-assistant/internal/logger"
	"catalog-assistant/internal/speech"
)

// Deps bundles runtime dependencies for the assistant service.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Store     catalog.Store
	Cache     cache.Cache
	Assistant *assistant.Assistant
}

// Build loads env, config, and shared components. A missing OpenAI key is a
// startup failure: the assistant must never begin serving questions it
// cannot answer.
func Build() (Deps, error) {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "assistant")

	if cfg.OpenAIKey == "" {
		return Deps{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize catalog store: %w", err)
	}

	answerer, err := chat.NewOpenAIAnswerer(cfg.OpenAIKey, openai.ChatModel(cfg.ChatModel))
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize answerer: %w", err)
	}
	log.Info("using OpenAI chat client", "model", cfg.ChatModel)

	transcriber, err := speech.NewOpenAITranscriber(cfg.OpenAIKey, openai.AudioModel(cfg.TranscribeModel))
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize transcriber: %w", err)
	}
	log.Info("using OpenAI transcriber", "model", cfg.TranscribeModel)

	c := buildCache(cfg, log)

	asst := assistant.New(assistant.Params{
		Log:         log,
		Store:       st,
		Answerer:    answerer,
		Transcriber: transcriber,
		Cache:       c,
		SearchLimit: cfg.SearchLimit,
		CacheTTL:    time.Duration(cfg.CacheTTL) * time.Second,
	})

	return Deps{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Cache:     c,
		Assistant: asst,
	}, nil
}

func buildStore(cfg config.Config, log *slog.Logger) (catalog.Store, error) {
	switch cfg.StoreProvider {
	case "sqlite":
		st, err := catalog.OpenSQLite(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite catalog: %w", err)
		}
		log.Info("using SQLite catalog store", "dir", cfg.DataDir)
		return st, nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		st, err := catalog.OpenPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open Postgres catalog: %w", err)
		}
		log.Info("using Postgres catalog store")
		return st, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: sqlite, postgres)", cfg.StoreProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	if cfg.CacheProvider != "redis" {
		return cache.NewNoOpCache()
	}
	c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		// Degraded but functional: every lookup just misses.
		log.Warn("redis unavailable, caching disabled", "err", err)
		return cache.NewNoOpCache()
	}
	log.Info("using Redis answer cache", "addr", cfg.RedisAddr)
	return c
}
