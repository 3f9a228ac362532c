package episodes

import (
	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
)

// RegisterRoutes registers episode routes. generateMiddleware applies only
// to the generate endpoint, which starts a multi-minute pipeline run.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, generateMiddleware gin.HandlerFunc) {
	// POST /api/v1/episodes/generate - Start a generation run
	router.POST("/generate", generateMiddleware, PostGenerate(deps))

	// GET /api/v1/episodes - List a user's episodes
	router.GET("", GetAll(deps))

	// GET /api/v1/episodes/:id - Get episode details
	router.GET("/:id", GetByID(deps))

	// POST /api/v1/episodes/:id/play - Record a playback
	router.POST("/:id/play", PostPlay(deps))
}
