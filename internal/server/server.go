package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/menubebe/backend/config"
	"github.com/pageza/menubebe/backend/internal/database"
	"github.com/pageza/menubebe/backend/internal/middleware"
	"github.com/pageza/menubebe/backend/internal/prompt"
	"github.com/pageza/menubebe/backend/internal/router"
	"github.com/pageza/menubebe/backend/internal/service"
)

const rateLimitKeyPrefix = "rate_limit:generate_meals"

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	redis  *redis.Client
	logger *logrus.Logger
	cancel context.CancelFunc
}

// Option customises a Server during construction
type Option func(*options)

type options struct {
	keys      config.APIKeyProvider
	generator service.Generator
}

// WithKeyProvider replaces the environment based credential lookup
func WithKeyProvider(keys config.APIKeyProvider) Option {
	return func(o *options) { o.keys = keys }
}

// WithGenerator replaces the Gemini generator
func WithGenerator(generator service.Generator) Option {
	return func(o *options) { o.generator = generator }
}

// New wires the meal service, middleware and routes from cfg
func New(cfg *config.Config, logger *logrus.Logger, opts ...Option) (*Server, error) {
	o := options{
		keys:      config.NewEnvKeyProvider(cfg.SecretsDir),
		generator: service.NewGeminiGenerator(service.WithBaseURL(cfg.Gemini.BaseURL)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := prompt.Load(cfg.Prompt.TemplateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	s := &Server{logger: logger}

	limiter, err := s.newLimiter(cfg)
	if err != nil {
		return nil, err
	}

	meals := service.NewMealService(o.keys, o.generator, tmpl, service.GenerationOptionsFromConfig(cfg.Gemini), logger)

	s.router, err = router.SetupRouter(meals, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Limiter:        limiter,
		Logger:         logger,
	})
	if err != nil {
		_ = s.release()
		return nil, err
	}

	s.http = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

func (s *Server) newLimiter(cfg *config.Config) (middleware.Limiter, error) {
	if !cfg.RateLimit.Enabled {
		s.logger.Warn("Rate limiting is disabled")
		return nil, nil
	}

	rlCfg := middleware.RateLimitConfig{
		Window:    cfg.RateLimit.Window,
		Limit:     cfg.RateLimit.Requests,
		KeyPrefix: rateLimitKeyPrefix,
	}

	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.redis = client
		return middleware.NewRedisLimiter(client, rlCfg), nil
	}

	local := middleware.NewLocalLimiter(rlCfg)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go local.Run(ctx)
	s.logger.Info("Redis not configured, using in-process rate limiter")
	return local, nil
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.logger.WithField("addr", s.http.Addr).Info("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and releases its resources
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if rerr := s.release(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

func (s *Server) release() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
