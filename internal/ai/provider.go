package ai

import (
	"context"
	"fmt"

	"github.com/finbotd/finbot/internal/config"
)

// Provider is one model backend.
type Provider interface {
	Name() string

	// Costless reports whether probing or prompting this provider consumes
	// no shared quota (e.g. a locally hosted model). Costless providers may
	// be exercised for every tenant; metered ones only for the
	// representative.
	Costless() bool

	Ping(ctx context.Context) error
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider constructs a provider from config.
func NewProvider(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Kind {
	case "openai":
		return newOpenAI(cfg), nil
	case "ollama":
		return newOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of openai, ollama", cfg.Kind)
	}
}
