package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	withDefaults := func(mut func(*Config)) Config {
		c := DefaultConfig()
		mut(&c)
		return c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"auto without keys", withDefaults(func(c *Config) {}), true},
		{"auto with one key", withDefaults(func(c *Config) { c.Gemini.APIKey = "g" }), false},
		{"anthropic without key", withDefaults(func(c *Config) { c.Provider = "anthropic"; c.OpenAI.APIKey = "o" }), true},
		{"anthropic with key", withDefaults(func(c *Config) { c.Provider = "anthropic"; c.Anthropic.APIKey = "sk-test" }), false},
		{"openrouter with key", withDefaults(func(c *Config) { c.Provider = "openrouter"; c.OpenRouter.APIKey = "sk-or" }), false},
		{"mock needs no key", withDefaults(func(c *Config) { c.Provider = "mock" }), false},
		{"unknown provider", withDefaults(func(c *Config) { c.Provider = "unknown" }), true},
		{"missing default model", withDefaults(func(c *Config) { c.Provider = "mock"; c.Models.Default = "" }), true},
		{"bad breaker", withDefaults(func(c *Config) { c.Provider = "mock"; c.Breaker.Failures = 0 }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Family(t *testing.T) {
	cfg := DefaultConfig()
	tests := map[string]string{
		"claude-sonnet":            "anthropic",
		"gpt-4o-mini":              "openai",
		"o3-mini":                  "openai",
		"gemini-flash-lite":        "gemini",
		"meta-llama/llama-3-8b":    "openrouter",
		"anthropic/claude-3-haiku": "openrouter",
		"mock":                     "mock",
		"mistral-large":            "",
	}
	for model, want := range tests {
		if got := cfg.Family(model); got != want {
			t.Errorf("Family(%q) = %q, want %q", model, got, want)
		}
	}

	cfg.Provider = "openrouter"
	if got := cfg.Family("claude-sonnet"); got != "openrouter" {
		t.Errorf("forced provider not honoured, got %q", got)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PRACTIZ_LLM_PROVIDER", "")
	t.Setenv("PRACTIZ_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "vendor-key")
	t.Setenv("PRACTIZ_GEMINI_API_KEY", "practiz-key")
	t.Setenv("GEMINI_API_KEY", "vendor-gemini")
	t.Setenv("PRACTIZ_FAST_MODEL", "gpt-4.1-nano")
	t.Setenv("PRACTIZ_LLM_TIMEOUT", "15s")
	t.Setenv("PRACTIZ_BREAKER", "false")

	cfg := ConfigFromEnv()
	if cfg.OpenAI.APIKey != "vendor-key" {
		t.Errorf("expected vendor key fallback, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Gemini.APIKey != "practiz-key" {
		t.Errorf("expected PRACTIZ_ key to win, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Models.Fast != "gpt-4.1-nano" {
		t.Errorf("fast model = %q", cfg.Models.Fast)
	}
	if cfg.Models.Default != "gpt-4o-mini" {
		t.Errorf("expected default model to keep its default, got %q", cfg.Models.Default)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
	if cfg.Breaker.Enabled {
		t.Error("expected breaker disabled")
	}
}

func TestNewProvider_MissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "g"

	_, err := NewProvider(context.Background(), cfg, "claude-sonnet")
	var nf *ErrModelNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrModelNotFound, got %T (%v)", err, err)
	}

	_, err = NewProvider(context.Background(), cfg, "mistral-large")
	if !errors.As(err, &nf) || nf.Model != "mistral-large" {
		t.Fatalf("expected ErrModelNotFound for unknown family, got %T (%v)", err, err)
	}
}

func TestNewProvider_ByFamily(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "o"
	cfg.Anthropic.APIKey = "a"
	cfg.OpenRouter.APIKey = "r"

	tests := []struct {
		model  string
		wantID string
	}{
		{"gpt-4o-mini", "gpt-4o-mini"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"anthropic/claude-3-haiku", "anthropic/claude-3-haiku"},
		{"mock", "mock"},
	}
	for _, tt := range tests {
		p, err := NewProvider(context.Background(), cfg, tt.model)
		if err != nil {
			t.Fatalf("NewProvider(%q): %v", tt.model, err)
		}
		if p.ModelID() != tt.wantID {
			t.Errorf("NewProvider(%q).ModelID() = %q, want %q", tt.model, p.ModelID(), tt.wantID)
		}
	}
}
