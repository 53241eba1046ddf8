package llm

import (
	"context"
	"fmt"
)

// NewProvider opens the backend serving model, choosing the family with
// cfg.Family. A model with no matching family, or whose family has no
// credentials, yields *ErrModelNotFound.
func NewProvider(ctx context.Context, cfg Config, model string) (Provider, error) {
	family := cfg.Family(model)

	var (
		p   Provider
		err error
	)
	switch family {
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, &ErrModelNotFound{Model: model, Err: fmt.Errorf("no anthropic API key configured")}
		}
		c := cfg.Anthropic
		c.Model = model
		p, err = NewAnthropicProvider(c)
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, &ErrModelNotFound{Model: model, Err: fmt.Errorf("no openai API key configured")}
		}
		c := cfg.OpenAI
		c.Model = model
		p, err = NewOpenAIProvider(c)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, &ErrModelNotFound{Model: model, Err: fmt.Errorf("no gemini API key configured")}
		}
		c := cfg.Gemini
		c.Model = model
		p, err = NewGeminiProvider(ctx, c)
	case "openrouter":
		if cfg.OpenRouter.APIKey == "" {
			return nil, &ErrModelNotFound{Model: model, Err: fmt.Errorf("no openrouter API key configured")}
		}
		c := cfg.OpenRouter
		c.Model = model
		p, err = NewOpenRouterProvider(c)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, &ErrModelNotFound{Model: model, Err: fmt.Errorf("no backend family for model")}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider for %s: %w", family, model, err)
	}
	return p, nil
}
