package signals

import (
	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
)

// RegisterRoutes registers signal routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/signals - Capture a signal
	router.POST("", Post(deps))

	// GET /api/v1/signals - List a user's signals
	router.GET("", Get(deps))
}
