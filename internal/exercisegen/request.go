package exercisegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercise"
)

const (
	// DefaultHintCount is used when a request does not ask for a number of hints.
	DefaultHintCount = 3

	// MaxHintCount caps the hints asked for per exercise.
	MaxHintCount = 5

	defaultLanguage = "en"
)

// RequestError reports a generation request that cannot be served. It is
// returned before any backend is contacted.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// Normalize validates req against the catalog and fills in defaults. It
// returns the normalized request and the subject's catalog entry.
//
// Types the subject does not support are dropped. An empty type list
// means every type the subject supports.
func Normalize(req exercise.GenerationRequest, cat *catalog.Catalog, maxCount int) (exercise.GenerationRequest, *catalog.Entry, error) {
	out := req

	out.Subject = exercise.Subject(strings.ToLower(strings.TrimSpace(string(req.Subject))))
	if out.Subject == "" {
		return req, nil, &RequestError{Field: "subject", Message: "is required"}
	}
	entry, ok := cat.Lookup(out.Subject)
	if !ok {
		return req, nil, &RequestError{Field: "subject", Message: fmt.Sprintf("unsupported subject %q", out.Subject)}
	}

	out.Topic = strings.Join(strings.Fields(req.Topic), " ")
	if out.Topic == "" {
		return req, nil, &RequestError{Field: "topic", Message: "is required"}
	}
	out.Category = strings.ToLower(strings.TrimSpace(req.Category))

	if strings.TrimSpace(string(req.Difficulty)) == "" {
		out.Difficulty = exercise.DifficultyIntermediate
	} else {
		d, ok := exercise.ParseDifficulty(string(req.Difficulty))
		if !ok {
			return req, nil, &RequestError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", req.Difficulty)}
		}
		out.Difficulty = d
	}

	types, err := normalizeTypes(req.Types, entry)
	if err != nil {
		return req, nil, err
	}
	out.Types = types

	if maxCount <= 0 {
		maxCount = DefaultConfig().MaxCount
	}
	switch {
	case out.Count < 1:
		out.Count = 1
	case out.Count > maxCount:
		out.Count = maxCount
	}

	out.Language = strings.ToLower(strings.TrimSpace(req.Language))
	if out.Language == "" {
		out.Language = defaultLanguage
	}
	out.TargetLanguage = strings.ToLower(strings.TrimSpace(req.TargetLanguage))

	opts := req.Options
	switch {
	case opts.HintCount <= 0:
		opts.HintCount = DefaultHintCount
	case opts.HintCount > MaxHintCount:
		opts.HintCount = MaxHintCount
	}
	opts.Quality = exercise.Quality(strings.ToLower(strings.TrimSpace(string(opts.Quality))))
	switch opts.Quality {
	case exercise.QualityFast, exercise.QualityBalanced, exercise.QualityHigh:
	default:
		opts.Quality = ""
	}
	opts.Model = strings.TrimSpace(opts.Model)
	out.Options = opts

	return out, entry, nil
}

func normalizeTypes(in []exercise.Type, entry *catalog.Entry) ([]exercise.Type, error) {
	if len(in) == 0 {
		return nil, nil
	}

	seen := make(map[exercise.Type]bool, len(in))
	var out []exercise.Type
	for _, raw := range in {
		t, ok := exercise.ParseType(string(raw))
		if !ok {
			return nil, &RequestError{Field: "types", Message: fmt.Sprintf("unknown exercise type %q", raw)}
		}
		if seen[t] || !entry.Supports(t) {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// effectiveTypes returns the types an exercise may use for req.
func effectiveTypes(req exercise.GenerationRequest, entry *catalog.Entry) []exercise.Type {
	if len(req.Types) > 0 {
		return req.Types
	}
	return entry.Types
}
