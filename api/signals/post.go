package signals

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// CreateRequest is the body for POST /signals
type CreateRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Content string `json:"content" binding:"required"`
	Kind    string `json:"kind,omitempty"`
	Channel string `json:"channel,omitempty"`
}

// Post captures one raw signal for later enrichment and selection
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
			return
		}

		kind := models.SignalKind(req.Kind)
		switch kind {
		case "":
			kind = models.SignalKindTopic
		case models.SignalKindLink, models.SignalKindTopic, models.SignalKindVoice:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid signal kind"})
			return
		}

		signal, err := deps.SignalService.Create(c.Request.Context(), req.UserID, req.Content, kind, req.Channel)
		if err != nil {
			log.Printf("[ERROR] Failed to create signal for user %d: %v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create signal"})
			return
		}

		c.JSON(http.StatusCreated, signal)
	}
}
