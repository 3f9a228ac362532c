package signals

import (
	"context"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// SignalRepository defines the interface for signal data persistence
type SignalRepository interface {
	CreateSignal(ctx context.Context, signal *models.Signal) error
	GetSignalByID(ctx context.Context, id uint) (*models.Signal, error)
	GetSignalsByIDs(ctx context.Context, ids []uint) ([]models.Signal, error)
	GetEligibleSignals(ctx context.Context, userID uint, since time.Time) ([]models.Signal, error)
	ListSignalsByUser(ctx context.Context, userID uint, page, limit int) ([]models.Signal, int64, error)
	UpdateSignalStatus(ctx context.Context, id uint, status models.SignalStatus) error
}

// SelectorService resolves the exact set of signals one generation run
// consumes
type SelectorService interface {
	// Select returns eligible signals for the user. When explicitIDs is
	// non-empty, every id must belong to the user and be in an eligible
	// status; otherwise the time-window mode applies.
	Select(ctx context.Context, userID uint, since time.Time, explicitIDs []uint) ([]models.Signal, error)

	// Capture-layer support operations
	Create(ctx context.Context, userID uint, content string, kind models.SignalKind, channel string) (*models.Signal, error)
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Signal, int64, error)
}
