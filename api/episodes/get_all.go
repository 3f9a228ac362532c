package episodes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
)

// GetAll lists a user's episodes, newest first
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "user_id query parameter is required"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		episodes, total, err := deps.EpisodeService.ListByUser(c.Request.Context(), uint(userID), page, limit)
		if err != nil {
			log.Printf("[ERROR] Failed to list episodes for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to list episodes"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"episodes": episodes,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	}
}
