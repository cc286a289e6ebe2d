package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for all binaries.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Catalog store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"sqlite"` // "sqlite" (local file) or "postgres"
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	DBURL         string `env:"DB_URL"`

	// OpenAI
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	ChatModel       string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	TranscribeModel string `env:"TRANSCRIBE_MODEL" envDefault:"whisper-1"`

	// Query behavior
	SearchLimit  int   `env:"SEARCH_LIMIT" envDefault:"5"`
	MaxAudioSize int64 `env:"MAX_AUDIO_SIZE" envDefault:"26214400"` // 25MB, the transcription endpoint cap

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "redis" or "none"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"300"` // seconds
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
