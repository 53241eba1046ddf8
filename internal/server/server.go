// Package server exposes the practice service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/logger"
	"github.com/abhisek/practiz/internal/practice"
)

// Practice is the service the HTTP handlers call.
type Practice interface {
	Generate(ctx context.Context, req practice.GenerateRequest) (*practice.GenerateResponse, error)
	Submit(ctx context.Context, req practice.SubmitRequest) (*practice.SubmitResponse, error)
	Get(ctx context.Context, id string) (*exercise.Exercise, error)
	Hints(ctx context.Context, id string, n int, all bool) ([]string, error)
}

// Config configures the HTTP server.
type Config struct {
	Addr string

	// AllowOrigins lists the CORS origins allowed to call the API.
	AllowOrigins []string

	// RequestTimeout bounds each request, generation included.
	RequestTimeout time.Duration
}

// DefaultConfig returns a Config listening on localhost.
func DefaultConfig() Config {
	return Config{
		Addr: "127.0.0.1:8080",
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		RequestTimeout: 2 * time.Minute,
	}
}

// Server serves the exercise API.
type Server struct {
	cfg    Config
	engine *gin.Engine
	log    *logger.Logger
}

// New builds the router for svc.
func New(svc Practice, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	if len(cfg.AllowOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}))
	}
	if cfg.RequestTimeout > 0 {
		engine.Use(requestTimeout(cfg.RequestTimeout))
	}

	h := &handler{svc: svc, log: log.With("component", "http")}

	engine.GET("/healthz", h.health)
	api := engine.Group("/api/v1/exercises")
	{
		api.POST("/generate", h.generate)
		api.POST("/submit", h.submit)
		api.GET("/:id", h.get)
		api.GET("/:id/hints", h.hints)
	}

	return &Server{cfg: cfg, engine: engine, log: log}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
