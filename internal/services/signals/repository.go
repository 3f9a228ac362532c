package signals

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

// Ensure Repository implements SignalRepository interface
var _ SignalRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSignal(ctx context.Context, signal *models.Signal) error {
	if err := r.db.WithContext(ctx).Create(signal).Error; err != nil {
		return fmt.Errorf("creating signal: %w", err)
	}
	return nil
}

func (r *Repository) GetSignalByID(ctx context.Context, id uint) (*models.Signal, error) {
	var signal models.Signal
	if err := r.db.WithContext(ctx).First(&signal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(id)
		}
		return nil, fmt.Errorf("getting signal: %w", err)
	}
	return &signal, nil
}

func (r *Repository) GetSignalsByIDs(ctx context.Context, ids []uint) ([]models.Signal, error) {
	var signals []models.Signal
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("getting signals by ids: %w", err)
	}
	return signals, nil
}

func (r *Repository) GetEligibleSignals(ctx context.Context, userID uint, since time.Time) ([]models.Signal, error) {
	var signals []models.Signal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", []models.SignalStatus{models.SignalStatusQueued, models.SignalStatusEnriched}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("getting eligible signals: %w", err)
	}
	return signals, nil
}

func (r *Repository) ListSignalsByUser(ctx context.Context, userID uint, page, limit int) ([]models.Signal, int64, error) {
	var signals []models.Signal
	var total int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&models.Signal{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting signals: %w", err)
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&signals).Error; err != nil {
		return nil, 0, fmt.Errorf("listing signals: %w", err)
	}

	return signals, total, nil
}

func (r *Repository) UpdateSignalStatus(ctx context.Context, id uint, status models.SignalStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Signal{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("updating signal status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError(id)
	}
	return nil
}
