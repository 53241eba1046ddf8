package exercisegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/practiz/internal/cache"
	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/logger"
	"github.com/abhisek/practiz/internal/rating"
)

// Purpose labels generation calls in the LLM event log.
const Purpose = "exercise-gen"

// Result is the outcome of one generation request.
type Result struct {
	Exercises   []*exercise.Exercise
	Model       string
	GeneratedAt time.Time
	Cached      bool
	TokensUsed  int

	// Warning is set when at least one exercise is a static fallback.
	Warning string
}

// Generator produces exercises by walking a backend chain per exercise.
type Generator struct {
	invoker    llm.Invoker
	catalog    *catalog.Catalog
	config     Config
	parser     *Parser
	classifier *rating.Classifier
	cache      cache.Store
	log        *logger.Logger
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache enables the single-exercise cache.
func WithCache(s cache.Store) Option {
	return func(g *Generator) { g.cache = s }
}

// WithLogger sets the logger for attempt and cache warnings.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithClassifier replaces the default content rating classifier.
func WithClassifier(c *rating.Classifier) Option {
	return func(g *Generator) { g.classifier = c }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator calling backends through invoker.
func New(invoker llm.Invoker, cat *catalog.Catalog, cfg Config, opts ...Option) *Generator {
	g := &Generator{
		invoker:    invoker,
		catalog:    cat,
		config:     cfg,
		classifier: rating.New(),
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.parser = &Parser{Validators: cfg.Validators, Classifier: g.classifier}
	return g
}

// Generate produces the exercises for req. The only error it returns is a
// *RequestError for a request that fails normalization; backend failures
// are absorbed by the chain and, as a last resort, the static fallback.
func (g *Generator) Generate(ctx context.Context, req exercise.GenerationRequest) (*Result, error) {
	req, entry, err := Normalize(req, g.catalog, g.config.MaxCount)
	if err != nil {
		return nil, err
	}

	useCache := g.cache != nil && req.Count == 1
	var key string
	if useCache {
		key = Fingerprint(req)
		if ex, ok := g.cached(ctx, key); ok {
			g.log.Debug("exercise cache hit", "key", key, "id", ex.ID)
			return &Result{
				Exercises:   []*exercise.Exercise{ex.WithCached()},
				Model:       ex.Metadata.GeneratedBy,
				GeneratedAt: g.now().UTC(),
				Cached:      true,
			}, nil
		}
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	chain := g.config.Chain.Build(req)

	res := &Result{}
	var (
		prior     []string
		fallbacks int
	)
	for i := 0; i < req.Count; i++ {
		ex, model, tokens := g.generateOne(ctx, req, entry, chain, prior)
		res.TokensUsed += tokens
		if ex == nil {
			ex = Fallback(req, entry, exercise.NewID(req.Subject, req.Category, g.now()), g.now())
			fallbacks++
			g.log.Warn("all backends failed, serving static fallback",
				"subject", req.Subject, "topic", req.Topic, "chain", strings.Join(chain, ","))
		} else {
			res.Model = model
		}
		res.Exercises = append(res.Exercises, ex)
		prior = append(prior, ex.Problem.Instruction)
	}

	res.GeneratedAt = g.now().UTC()
	if res.Model == "" {
		res.Model = FallbackModel
	}
	if fallbacks > 0 {
		res.Warning = fmt.Sprintf("AI generation unavailable: %d of %d exercises are static placeholders", fallbacks, req.Count)
	}

	if useCache && fallbacks == 0 {
		g.store(ctx, key, res.Exercises[0])
	}
	return res, nil
}

// generateOne walks chain until a backend yields a valid exercise. It
// returns nil when the chain is exhausted.
func (g *Generator) generateOne(ctx context.Context, req exercise.GenerationRequest, entry *catalog.Entry, chain, prior []string) (*exercise.Exercise, string, int) {
	prompts := BuildPrompts(req, entry, prior, g.config.MaxPriorInBatch, g.now())
	llmReq := llm.Request{
		System: prompts.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompts.User},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	tokens := 0
	for _, model := range chain {
		if err := ctx.Err(); err != nil {
			g.log.Warn("generation cancelled", "error", err)
			return nil, "", tokens
		}

		resp, err := g.invoker.Invoke(ctx, model, llmReq)
		if err != nil {
			class := ClassifyError(err)
			g.log.Warn("backend attempt failed", "model", model, "class", class.String(), "error", err)
			continue
		}
		tokens += usedTokens(resp.Usage)

		if strings.TrimSpace(resp.Text) == "" {
			g.log.Warn("backend returned empty text", "model", model)
			continue
		}

		now := g.now()
		ex, err := g.parser.Parse(resp.Text, Build{
			Request: req,
			Entry:   entry,
			Model:   model,
			ID:      exercise.NewID(req.Subject, req.Category, now),
			Now:     now,
		})
		if err != nil {
			g.log.Warn("discarding malformed exercise", "model", model, "parse_error", isParseError(err), "error", err)
			continue
		}

		g.log.Debug("exercise generated", "model", model, "id", ex.ID, "type", ex.Type)
		return ex, model, tokens
	}
	return nil, "", tokens
}

func usedTokens(u llm.Usage) int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.InputTokens + u.OutputTokens
}
