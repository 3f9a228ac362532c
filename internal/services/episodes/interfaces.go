package episodes

import (
	"context"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// EpisodeRepository defines the interface for episode data persistence
type EpisodeRepository interface {
	// Create operations
	CreateEpisode(ctx context.Context, episode *models.Episode) error

	// Read operations
	GetEpisodeByID(ctx context.Context, id uint) (*models.Episode, error)
	ListEpisodesByUser(ctx context.Context, userID uint, page, limit int) ([]models.Episode, int64, error)
	CountEpisodesSince(ctx context.Context, userID uint, since time.Time) (int64, error)

	// Update operations
	UpdateEpisode(ctx context.Context, episode *models.Episode) error
	UpdateEpisodeStatus(ctx context.Context, id uint, status models.EpisodeStatus) error
	IncrementPlayCount(ctx context.Context, id uint) error

	// Transactional lifecycle operations
	FinalizeEpisode(ctx context.Context, episode *models.Episode, signalIDs []uint) error
	FailEpisode(ctx context.Context, id uint, message string, signalIDs []uint) error

	// Delete operations
	DeleteEpisode(ctx context.Context, id uint) error
}

// EpisodeService defines the business logic interface for episode operations
type EpisodeService interface {
	// Lifecycle operations driven by the generation run
	Create(ctx context.Context, userID uint, periodStart, periodEnd time.Time) (*models.Episode, error)
	SetStatus(ctx context.Context, id uint, status models.EpisodeStatus) error
	Finalize(ctx context.Context, episode *models.Episode, signalIDs []uint) error
	MarkFailed(ctx context.Context, id uint, cause error, signalIDs []uint) error
	Discard(ctx context.Context, id uint) error

	// Read operations
	GetByID(ctx context.Context, id uint) (*models.Episode, error)
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Episode, int64, error)
	CountSince(ctx context.Context, userID uint, since time.Time) (int64, error)

	// Playback operations
	RecordPlay(ctx context.Context, id uint) (*models.Episode, error)
}
