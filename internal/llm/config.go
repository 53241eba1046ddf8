package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds credentials for every backend family plus the model chain
// and breaker settings.
type Config struct {
	// Provider forces every model onto one backend family. Empty or "auto"
	// routes each model by its name (see Family).
	// Values: "auto", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Models     ModelConfig
	Breaker    BreakerConfig

	// Timeout is the maximum duration of a single backend call. Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration. Model is set per
// backend by the registry.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// ModelConfig names the models used by the fallback chain.
type ModelConfig struct {
	Fast      string // primary when no tier or explicit model is requested
	Balanced  string // "balanced" quality tier
	Quality   string // "quality" tier
	Reasoning string // proof/derivation work in math and physics
	Default   string // always tried after the primary
	Light     string // last resort
}

// BreakerConfig configures the per-model circuit breaker.
type BreakerConfig struct {
	Enabled bool

	// Failures is the number of consecutive failures that opens the breaker.
	Failures int

	// Cooldown is how long an open breaker rejects calls before probing.
	Cooldown time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "auto",
		Models: ModelConfig{
			Fast:      "gemini-flash",
			Balanced:  "gpt-4o-mini",
			Quality:   "claude-sonnet",
			Reasoning: "claude-sonnet",
			Default:   "gpt-4o-mini",
			Light:     "gemini-flash-lite",
		},
		Breaker: BreakerConfig{
			Enabled:  true,
			Failures: 3,
			Cooldown: 60 * time.Second,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Vendor variables (ANTHROPIC_API_KEY, ...)
// are honoured when the PRACTIZ_ variant is unset.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("PRACTIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(p)
	}

	cfg.Anthropic.APIKey = firstEnv("PRACTIZ_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	cfg.Anthropic.BaseURL = os.Getenv("PRACTIZ_ANTHROPIC_BASE_URL")
	cfg.OpenAI.APIKey = firstEnv("PRACTIZ_OPENAI_API_KEY", "OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = os.Getenv("PRACTIZ_OPENAI_BASE_URL")
	cfg.Gemini.APIKey = firstEnv("PRACTIZ_GEMINI_API_KEY", "GEMINI_API_KEY")
	cfg.OpenRouter.APIKey = firstEnv("PRACTIZ_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	cfg.OpenRouter.BaseURL = os.Getenv("PRACTIZ_OPENROUTER_BASE_URL")

	setEnv(&cfg.Models.Fast, "PRACTIZ_FAST_MODEL")
	setEnv(&cfg.Models.Balanced, "PRACTIZ_BALANCED_MODEL")
	setEnv(&cfg.Models.Quality, "PRACTIZ_QUALITY_MODEL")
	setEnv(&cfg.Models.Reasoning, "PRACTIZ_REASONING_MODEL")
	setEnv(&cfg.Models.Default, "PRACTIZ_DEFAULT_MODEL")
	setEnv(&cfg.Models.Light, "PRACTIZ_LIGHT_MODEL")

	if v := os.Getenv("PRACTIZ_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PRACTIZ_BREAKER"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Breaker.Enabled = on
		}
	}

	return cfg
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Family returns the backend family serving model: the forced Provider if
// one is set, otherwise a family inferred from the model name. Returns ""
// when no family matches.
func (c Config) Family(model string) string {
	if c.Provider != "" && c.Provider != "auto" {
		return c.Provider
	}
	m := strings.ToLower(model)
	switch {
	case m == "mock" || strings.HasPrefix(m, "mock-"):
		return "mock"
	case strings.Contains(m, "/"):
		return "openrouter"
	case strings.HasPrefix(m, "claude"):
		return "anthropic"
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "chatgpt"),
		strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return "openai"
	}
	return ""
}

// Validate checks the provider selection, credentials and model chain.
func (c Config) Validate() error {
	switch c.Provider {
	case "", "auto":
		if c.Anthropic.APIKey == "" && c.OpenAI.APIKey == "" &&
			c.Gemini.APIKey == "" && c.OpenRouter.APIKey == "" {
			return fmt.Errorf("no LLM API key configured: set PRACTIZ_GEMINI_API_KEY, PRACTIZ_OPENAI_API_KEY, PRACTIZ_ANTHROPIC_API_KEY or PRACTIZ_OPENROUTER_API_KEY")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("PRACTIZ_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("PRACTIZ_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("PRACTIZ_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("PRACTIZ_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}

	if c.Models.Default == "" {
		return fmt.Errorf("default model must be set")
	}
	if c.Breaker.Enabled && c.Breaker.Failures <= 0 {
		return fmt.Errorf("breaker failure threshold must be positive")
	}
	return nil
}
