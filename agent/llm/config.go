package llm

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
	configx "github.com/taskmaster-ai/taskmaster-agent/pkg/config"
	geminix "github.com/taskmaster-ai/taskmaster-agent/pkg/gemini"
	openrouterx "github.com/taskmaster-ai/taskmaster-agent/pkg/openrouter"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Provider        string  `envconfig:"PROVIDER" split_words:"true" default:"gemini"`
	Temperature     float32 `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	MaxOutputTokens int     `envconfig:"MAX_OUTPUT_TOKENS" split_words:"true" default:"2048"`
	ContextWindow   int     `envconfig:"CONTEXT_WINDOW" split_words:"true" default:"10"`
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case ProviderGemini, ProviderOpenRouter:
		return nil
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
}

// NewGenerator builds the configured provider. Each provider reads its own
// prefixed environment section (GEMINI_* or OPENROUTER_*).
func (c Config) NewGenerator(ctx context.Context) (contractx.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case ProviderGemini:
		cfg, err := configx.New[geminix.Config]("GEMINI")
		if err != nil {
			return nil, fmt.Errorf("load gemini config: %w", err)
		}
		return geminix.NewClient(ctx, *cfg)
	case ProviderOpenRouter:
		cfg, err := configx.New[openrouterx.Config]("OPENROUTER")
		if err != nil {
			return nil, fmt.Errorf("load openrouter config: %w", err)
		}
		return openrouterx.NewClient(*cfg)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
}
