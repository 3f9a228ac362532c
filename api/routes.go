package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/episodes"
	"github.com/br00kd0wnt0n/poddit-api/api/health"
	"github.com/br00kd0wnt0n/poddit-api/api/signals"
	"github.com/br00kd0wnt0n/poddit-api/api/types"
	"github.com/br00kd0wnt0n/poddit-api/api/version"
	"github.com/br00kd0wnt0n/poddit-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	if deps == nil {
		return fmt.Errorf("handler dependencies are nil")
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rps := cfg.RateLimiting.RequestsPerSecond
	burst := cfg.RateLimiting.Burst
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Signal capture routes with general rate limiting
	signalGroup := v1.Group("/signals")
	signalGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, burst))
	signals.RegisterRoutes(signalGroup, deps)

	// Episode routes with a much tighter limit on the generate endpoint,
	// since each call starts a multi-minute pipeline run
	episodeGroup := v1.Group("/episodes")
	episodeGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, burst))
	generateMiddleware := PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 1, 2)
	episodes.RegisterRoutes(episodeGroup, deps, generateMiddleware)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
