package embedding

import (
	"fmt"
	"os"

	"careerpilot/config"
	"careerpilot/internal/port"
)

// New creates the embedding provider selected by cfg.Provider.
func New(cfg config.EmbeddingConfig) (port.EmbeddingProvider, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocalProvider(cfg.Dimension, cfg.ModelPath)
	case "openai", "remote":
		return NewRemoteProvider(RemoteConfig{
			APIKey:            os.Getenv(cfg.APIKeyEnv),
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			Dimension:         cfg.Dimension,
			Timeout:           cfg.Timeout(),
			BatchSize:         cfg.BatchSize,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		return NewRemoteProvider(RemoteConfig{
			APIKey:            "ollama",
			Model:             cfg.Model,
			BaseURL:           baseURL,
			Dimension:         cfg.Dimension,
			Timeout:           cfg.Timeout(),
			BatchSize:         cfg.BatchSize,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
