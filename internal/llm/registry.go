package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"

	"github.com/abhisek/practiz/internal/logger"
	"github.com/abhisek/practiz/internal/store"
)

// Invoker runs a single generation call against a named model. It is the
// boundary the exercise generator depends on.
type Invoker interface {
	Invoke(ctx context.Context, model string, req Request) (*Response, error)
}

// Opener opens the backend for a model identifier.
type Opener func(ctx context.Context, model string) (Provider, error)

// ConfigOpener opens backends from cfg (see NewProvider).
func ConfigOpener(cfg Config) Opener {
	return func(ctx context.Context, model string) (Provider, error) {
		return NewProvider(ctx, cfg, model)
	}
}

// StaticOpener serves a fixed set of providers keyed by model identifier.
// Unknown models yield *ErrModelNotFound.
func StaticOpener(providers map[string]Provider) Opener {
	return func(_ context.Context, model string) (Provider, error) {
		if p, ok := providers[model]; ok {
			return p, nil
		}
		return nil, &ErrModelNotFound{Model: model}
	}
}

// Registry lazily opens one Provider per model and invokes it, optionally
// through a per-model circuit breaker and with event logging.
type Registry struct {
	open    Opener
	family  func(model string) string
	breaker BreakerConfig
	timeout time.Duration
	events  store.EventRepo
	log     *logger.Logger

	mu        sync.Mutex
	providers map[string]Provider
	breakers  map[string]circuitbreaker.CircuitBreaker[*Response]
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBreaker enables a circuit breaker per model.
func WithBreaker(cfg BreakerConfig) RegistryOption {
	return func(r *Registry) { r.breaker = cfg }
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) { r.timeout = d }
}

// WithEventLog records every backend call in repo. family labels events
// with the backend family of the model.
func WithEventLog(repo store.EventRepo, family func(model string) string) RegistryOption {
	return func(r *Registry) {
		r.events = repo
		r.family = family
	}
}

// WithLogger sets the logger for breaker and event-log warnings.
func WithLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates a Registry backed by open.
func NewRegistry(open Opener, opts ...RegistryOption) *Registry {
	r := &Registry{
		open:      open,
		log:       logger.Nop(),
		providers: make(map[string]Provider),
		breakers:  make(map[string]circuitbreaker.CircuitBreaker[*Response]),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRegistryFromConfig wires a Registry for cfg: backends opened by model
// family, breaker and timeout from cfg, events recorded in repo when
// non-nil.
func NewRegistryFromConfig(cfg Config, repo store.EventRepo, log *logger.Logger) *Registry {
	opts := []RegistryOption{
		WithTimeout(cfg.Timeout),
		WithLogger(log),
	}
	if cfg.Breaker.Enabled {
		opts = append(opts, WithBreaker(cfg.Breaker))
	}
	if repo != nil {
		opts = append(opts, WithEventLog(repo, cfg.Family))
	}
	return NewRegistry(ConfigOpener(cfg), opts...)
}

// Invoke runs req against model. Open failures are returned as-is
// (typically *ErrModelNotFound). A call rejected by an open breaker is
// reported as *ErrProviderUnavailable.
func (r *Registry) Invoke(ctx context.Context, model string, req Request) (*Response, error) {
	p, br, err := r.provider(ctx, model)
	if err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if br == nil {
		return p.Generate(ctx, req)
	}

	called := false
	resp, err := br.Execute(ctx, func(ctx context.Context) (*Response, error) {
		called = true
		return p.Generate(ctx, req)
	})
	if err != nil && !called {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("circuit open for %s: %w", model, err)}
	}
	return resp, err
}

func (r *Registry) provider(ctx context.Context, model string) (Provider, circuitbreaker.CircuitBreaker[*Response], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[model]; ok {
		return p, r.breakers[model], nil
	}

	p, err := r.open(ctx, model)
	if err != nil {
		return nil, nil, err
	}
	if r.events != nil {
		family := model
		if r.family != nil {
			family = r.family(model)
		}
		p = WithLogging(p, family, r.events, r.log)
	}
	r.providers[model] = p

	if r.breaker.Enabled {
		r.breakers[model] = r.newBreaker(model)
	}
	return p, r.breakers[model], nil
}

func (r *Registry) newBreaker(model string) circuitbreaker.CircuitBreaker[*Response] {
	threshold := r.breaker.Failures
	if threshold <= 0 {
		threshold = 3
	}
	cooldown := r.breaker.Cooldown
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	return circuitbreaker.New[*Response](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    cooldown,
		Timeout:     cooldown,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= threshold
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			r.log.Warn("circuit breaker state change",
				"model", model,
				"from", from.String(),
				"to", to.String())
		},
	})
}
