package episodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements EpisodeRepository interface
var _ EpisodeRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	if err := r.db.WithContext(ctx).Create(episode).Error; err != nil {
		return fmt.Errorf("creating episode: %w", err)
	}
	return nil
}

func (r *Repository) GetEpisodeByID(ctx context.Context, id uint) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&episode, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("episode", id)
		}
		return nil, fmt.Errorf("getting episode: %w", err)
	}
	return &episode, nil
}

func (r *Repository) ListEpisodesByUser(ctx context.Context, userID uint, page, limit int) ([]models.Episode, int64, error) {
	var episodes []models.Episode
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Episode{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting episodes: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&episodes).Error; err != nil {
		return nil, 0, fmt.Errorf("listing episodes: %w", err)
	}

	return episodes, total, nil
}

func (r *Repository) CountEpisodesSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	// Failed runs do not count against the quota
	if err := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Where("user_id = ? AND status != ? AND created_at >= ?", userID, models.EpisodeStatusFailed, since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting episodes: %w", err)
	}
	return count, nil
}

func (r *Repository) UpdateEpisode(ctx context.Context, episode *models.Episode) error {
	result := r.db.WithContext(ctx).Save(episode)
	if result.Error != nil {
		return fmt.Errorf("updating episode: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("episode", episode.ID)
	}
	return nil
}

func (r *Repository) UpdateEpisodeStatus(ctx context.Context, id uint, status models.EpisodeStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("updating episode status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("episode", id)
	}
	return nil
}

func (r *Repository) IncrementPlayCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Where("id = ?", id).
		Update("play_count", gorm.Expr("play_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("incrementing play count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("episode", id)
	}
	return nil
}

// FinalizeEpisode persists the finished episode and consumes its signals in
// one transaction, so a crash cannot leave a ready episode with unconsumed
// signals or vice versa.
func (r *Repository) FinalizeEpisode(ctx context.Context, episode *models.Episode, signalIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		episode.Status = models.EpisodeStatusReady
		// Segments are inserted explicitly below with their positions set
		if err := tx.Omit("Segments", "Signals").Save(episode).Error; err != nil {
			return fmt.Errorf("saving episode: %w", err)
		}

		for i := range episode.Segments {
			episode.Segments[i].EpisodeID = episode.ID
			episode.Segments[i].Position = i
		}
		if len(episode.Segments) > 0 {
			if err := tx.Create(&episode.Segments).Error; err != nil {
				return fmt.Errorf("saving segments: %w", err)
			}
		}

		if len(signalIDs) > 0 {
			if err := tx.Model(&models.Signal{}).
				Where("id IN ?", signalIDs).
				Updates(map[string]interface{}{
					"status":     models.SignalStatusUsed,
					"episode_id": episode.ID,
				}).Error; err != nil {
				return fmt.Errorf("consuming signals: %w", err)
			}
		}

		return nil
	})
}

func (r *Repository) DeleteEpisode(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.Episode{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting episode: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("episode", id)
	}
	return nil
}

// FailEpisode marks the episode failed and releases its signals back to the
// eligible pool in one transaction.
func (r *Repository) FailEpisode(ctx context.Context, id uint, message string, signalIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Episode{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":        models.EpisodeStatusFailed,
				"error_message": message,
			})
		if result.Error != nil {
			return fmt.Errorf("marking episode failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return NewNotFoundError("episode", id)
		}

		if len(signalIDs) > 0 {
			if err := tx.Model(&models.Signal{}).
				Where("id IN ?", signalIDs).
				Updates(map[string]interface{}{
					"status":     models.SignalStatusEnriched,
					"episode_id": nil,
				}).Error; err != nil {
				return fmt.Errorf("releasing signals: %w", err)
			}
		}

		return nil
	})
}
