package llm

import (
	"fmt"

	"github.com/charlietlamb/openai-hack/internal/port/inference"
)

// Config selects and decorates a provider.
type Config struct {
	Provider string // "openai" or "anthropic"
	Model    string
	APIKey   string
	BaseURL  string
	// RPS <= 0 disables pacing.
	RPS     float64
	Breaker BreakerConfig
}

// New builds the configured provider. A circuit breaker is added only when
// Breaker.MaxFailures is positive, and a rate limiter only when RPS is set.
// The limiter sits outside the breaker so waiting calls never count as failures.
func New(cfg Config) (inference.Provider, error) {
	var p inference.Provider
	switch cfg.Provider {
	case "", "openai":
		p = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "anthropic":
		p = NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}

	if cfg.Breaker.MaxFailures > 0 {
		p = NewBreakerProvider(p, cfg.Breaker)
	}
	if cfg.RPS > 0 {
		p = NewLimitedProvider(p, cfg.RPS, int(cfg.RPS))
	}
	return p, nil
}
