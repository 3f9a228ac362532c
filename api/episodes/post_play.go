package episodes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
	episodesService "github.com/br00kd0wnt0n/poddit-api/internal/services/episodes"
)

// PostPlay records one playback of a ready episode
func PostPlay(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid episode ID"})
			return
		}

		episode, err := deps.EpisodeService.RecordPlay(c.Request.Context(), uint(id))
		if err != nil {
			switch {
			case episodesService.IsNotFound(err):
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Episode not found"})
			case errors.Is(err, episodesService.ErrInvalidInput):
				c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "Episode is not ready for playback"})
			default:
				log.Printf("[ERROR] Failed to record play for episode %d: %v", id, err)
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to record play"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": episode.ID, "play_count": episode.PlayCount})
	}
}
