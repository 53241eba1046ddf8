package exercisegen

import (
	"os"
	"strconv"
	"time"

	"github.com/abhisek/practiz/internal/llm"
)

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every parsed exercise; the first failure
	// discards the response.
	Validators []Validator

	// Chain selects the backends tried for each exercise.
	Chain ChainPolicy

	// MaxTokens is the token budget for one generated exercise.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxCount caps the number of exercises per request.
	MaxCount int

	// MaxPriorInBatch is the maximum number of already generated
	// instructions repeated in the prompt for deduplication.
	MaxPriorInBatch int

	// CacheTTL is how long a generated exercise stays in the cache.
	CacheTTL time.Duration
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ContentValidator{},
		},
		Chain:           ChainPolicy{Models: llm.DefaultConfig().Models},
		MaxTokens:       2048,
		Temperature:     0.7,
		MaxCount:        10,
		MaxPriorInBatch: 8,
		CacheTTL:        6 * time.Hour,
	}
}

// ConfigFromEnv returns DefaultConfig with the model chain taken from
// models and PRACTIZ_MAX_COUNT / PRACTIZ_CACHE_TTL applied.
func ConfigFromEnv(models llm.ModelConfig) Config {
	cfg := DefaultConfig()
	cfg.Chain = ChainPolicy{Models: models}

	if v := os.Getenv("PRACTIZ_MAX_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxCount = n
		}
	}
	if v := os.Getenv("PRACTIZ_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	return cfg
}
