package exercisegen

import (
	"slices"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/llm"
)

// ChainPolicy decides which backends are tried, in order, for one exercise.
type ChainPolicy struct {
	Models llm.ModelConfig
}

// Build returns the ordered backend chain for req: the primary model,
// then the global default, then the lightweight last resort. Empty and
// repeated entries are removed; order is kept.
//
// The primary is the request's explicit model, else the model for its
// quality tier, else the reasoning model for proof or derivation work in
// math and physics, else the fast model.
func (p ChainPolicy) Build(req exercise.GenerationRequest) []string {
	return dedupe([]string{p.primary(req), p.Models.Default, p.Models.Light})
}

func (p ChainPolicy) primary(req exercise.GenerationRequest) string {
	if req.Options.Model != "" {
		return req.Options.Model
	}

	switch req.Options.Quality {
	case exercise.QualityFast:
		return p.Models.Fast
	case exercise.QualityBalanced:
		return p.Models.Balanced
	case exercise.QualityHigh:
		return p.Models.Quality
	}

	if needsReasoning(req) && p.Models.Reasoning != "" {
		return p.Models.Reasoning
	}
	return p.Models.Fast
}

func needsReasoning(req exercise.GenerationRequest) bool {
	if req.Subject != exercise.SubjectMath && req.Subject != exercise.SubjectPhysics {
		return false
	}
	return slices.Contains(req.Types, exercise.TypeProof) ||
		slices.Contains(req.Types, exercise.TypeDerivation)
}

func dedupe(models []string) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m == "" || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}
