package exercisegen

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
)

const cacheKeyPrefix = "exercise:"

var fingerprintStrip = regexp.MustCompile(`[^a-z0-9\s]+`)

// Fingerprint returns the cache key for a normalized request: subject,
// category (or "any"), topic, difficulty and the sorted types (or "any"),
// each lowercased and stripped of symbols.
func Fingerprint(req exercise.GenerationRequest) string {
	category := req.Category
	if category == "" {
		category = "any"
	}

	types := "any"
	if len(req.Types) > 0 {
		parts := make([]string, len(req.Types))
		for i, t := range req.Types {
			parts[i] = fingerprintPart(string(t))
		}
		sort.Strings(parts)
		types = strings.Join(parts, ",")
	}

	return cacheKeyPrefix + strings.Join([]string{
		fingerprintPart(string(req.Subject)),
		fingerprintPart(category),
		fingerprintPart(req.Topic),
		fingerprintPart(string(req.Difficulty)),
		types,
	}, ":")
}

func fingerprintPart(s string) string {
	s = fingerprintStrip.ReplaceAllString(strings.ToLower(s), "")
	return strings.Join(strings.Fields(s), "-")
}

// cached returns the stored exercise for req, if any. Cache failures are
// logged and reported as a miss.
func (g *Generator) cached(ctx context.Context, key string) (*exercise.Exercise, bool) {
	val, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warn("exercise cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var ex exercise.Exercise
	if err := json.Unmarshal([]byte(val), &ex); err != nil {
		g.log.Warn("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &ex, true
}

func (g *Generator) store(ctx context.Context, key string, ex *exercise.Exercise) {
	data, err := json.Marshal(ex)
	if err != nil {
		g.log.Warn("encode exercise for cache", "id", ex.ID, "error", err)
		return
	}
	if err := g.cache.Put(ctx, key, string(data), g.config.CacheTTL); err != nil {
		g.log.Warn("exercise cache write failed", "key", key, "error", err)
	}
}
