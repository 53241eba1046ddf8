package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/practiz/internal/cache"
	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercisegen"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/logger"
	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/store"
	"github.com/spf13/cobra"
)

// deps are the long-lived objects shared by the commands.
type deps struct {
	store     *store.Store
	log       *logger.Logger
	generator *exercisegen.Generator
	service   *practice.Service
	closers   []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// newLogger builds the logger selected by --log-mode, falling back to
// fallbackMode when the flag and PRACTIZ_LOG_MODE are unset.
func newLogger(cmd *cobra.Command, fallbackMode string) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log-mode")
	if mode == "" {
		mode = fallbackMode
	}
	return logger.New(mode)
}

// newGenerator wires the backend registry, the catalog and the exercise
// cache. events may be nil, which disables the LLM event log.
func newGenerator(ctx context.Context, events store.EventRepo, log *logger.Logger) (*exercisegen.Generator, func(), error) {
	cat, err := catalog.FromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Static placeholder exercises will be served.")
	}
	reg := llm.NewRegistryFromConfig(cfg, events, log)
	genCfg := exercisegen.ConfigFromEnv(cfg.Models)

	closeFn := func() {}
	var exCache cache.Store = cache.NewMemory(512, genCfg.CacheTTL)
	if url := os.Getenv("PRACTIZ_REDIS_URL"); url != "" {
		r, err := cache.OpenRedis(ctx, url)
		if err != nil {
			log.Warn("redis cache unavailable, using in-memory cache", "error", err)
		} else {
			exCache = r
			closeFn = func() { _ = r.Close() }
		}
	}

	gen := exercisegen.New(reg, cat, genCfg,
		exercisegen.WithCache(exCache),
		exercisegen.WithLogger(log))
	return gen, closeFn, nil
}

// openDeps opens the store and builds the practice service.
func openDeps(cmd *cobra.Command, logMode string) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger(cmd, logMode)
	if err != nil {
		return nil, err
	}
	d := &deps{log: log}
	d.closers = append(d.closers, log.Sync)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, func() { _ = st.Close() })

	gen, closeGen, err := newGenerator(ctx, st.EventRepo(), log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.generator = gen
	d.closers = append(d.closers, closeGen)

	d.service = practice.NewService(gen, st.ExerciseRepo(), st.SubmissionRepo(), log)
	return d, nil
}
