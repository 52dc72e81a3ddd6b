package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the configured provider wrapped with logging and
// the configured timeout.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		p, err = NewAnthropic(cfg.Anthropic)
	case ProviderOpenAI:
		p, err = NewOpenAI(cfg.OpenAI)
	case ProviderGemini:
		p, err = NewGemini(ctx, cfg.Gemini)
	case ProviderMock:
		p = NewMock()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(p, logger, cfg.Timeout), nil
}
