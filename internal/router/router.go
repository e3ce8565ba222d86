package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pageza/menubebe/backend/internal/api"
	"github.com/pageza/menubebe/backend/internal/middleware"
	"github.com/pageza/menubebe/backend/internal/service"
)

// Options holds what SetupRouter needs beyond the handlers
type Options struct {
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Empty means the socket
	// address identifies the client.
	TrustedProxies []string
	MaxBodyBytes   int64
	// Limiter is nil when rate limiting is disabled
	Limiter middleware.Limiter
	Logger  *logrus.Logger
}

// SetupRouter configures the application routes. Rate limiting runs in
// front of the meal handler, so a rejected client gets 429 even when the
// API key is missing.
func SetupRouter(meals service.MealSuggester, opts Options) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Recovery(opts.Logger),
		middleware.Metrics(),
		middleware.CORS(opts.AllowedOrigins),
	)
	router.NoRoute(middleware.NotFound)

	router.GET("/health", api.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	if opts.Limiter != nil {
		apiGroup.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
	}

	api.NewMealsHandler(meals).RegisterRoutes(apiGroup)

	return router, nil
}
