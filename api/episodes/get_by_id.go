package episodes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
	episodesService "github.com/br00kd0wnt0n/poddit-api/internal/services/episodes"
)

// GetByID returns a single episode with its segments
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid episode ID"})
			return
		}

		episode, err := deps.EpisodeService.GetByID(c.Request.Context(), uint(id))
		if err != nil {
			if episodesService.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Episode not found"})
			} else {
				log.Printf("[ERROR] Failed to fetch episode %d: %v", id, err)
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch episode"})
			}
			return
		}

		c.JSON(http.StatusOK, episode)
	}
}
