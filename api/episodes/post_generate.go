package episodes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/br00kd0wnt0n/poddit-api/api/types"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/generation"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/signals"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/users"
)

// GenerateRequest is the body for POST /episodes/generate
type GenerateRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	SignalIDs []uint `json:"signal_ids,omitempty"`
	// EpisodeLimit overrides the quota limit for this run only
	EpisodeLimit int `json:"episode_limit,omitempty"`
}

// PostGenerate starts a generation run for one user. The run is synchronous:
// the response carries the finished (or failed) episode.
func PostGenerate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
			return
		}

		log.Printf("[INFO] Generation requested for user %d (%d explicit signals)", req.UserID, len(req.SignalIDs))

		episode, err := deps.GenerationService.Generate(c.Request.Context(), generation.GenerateRequest{
			UserID:       req.UserID,
			SignalIDs:    req.SignalIDs,
			Manual:       true,
			EpisodeLimit: req.EpisodeLimit,
		})
		if err != nil {
			respondGenerationError(c, req.UserID, err)
			return
		}

		c.JSON(http.StatusCreated, episode)
	}
}

// respondGenerationError maps typed pipeline errors onto HTTP statuses
func respondGenerationError(c *gin.Context, userID uint, err error) {
	var limitErr generation.LimitError
	var inFlightErr generation.InFlightError

	switch {
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User not found"})

	case errors.As(err, &limitErr):
		c.Header("Retry-After", strconv.Itoa(int(limitErr.RetryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"status":              "error",
			"message":             "Episode limit reached",
			"retry_after_seconds": int(limitErr.RetryAfter.Seconds()),
		})

	case errors.As(err, &inFlightErr):
		c.Header("Retry-After", strconv.Itoa(int(inFlightErr.RetryAfter.Seconds())))
		c.JSON(http.StatusConflict, gin.H{
			"status":              "error",
			"message":             "A generation run is already in flight for this user",
			"retry_after_seconds": int(inFlightErr.RetryAfter.Seconds()),
		})

	case errors.Is(err, generation.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "A generation run is already in flight for this user"})

	case errors.Is(err, generation.ErrNoSignals):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "message": "No eligible signals in the window"})

	case errors.Is(err, signals.ErrSelectionInvalid), errors.Is(err, signals.ErrSignalNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "message": err.Error()})

	default:
		log.Printf("[ERROR] Generation failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Episode generation failed"})
	}
}
