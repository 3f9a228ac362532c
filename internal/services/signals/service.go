package signals

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// Service implements the SelectorService interface
type Service struct {
	repository SignalRepository
}

// Ensure Service implements SelectorService interface
var _ SelectorService = (*Service)(nil)

// NewService creates a new signal selector service
func NewService(repository SignalRepository) *Service {
	return &Service{repository: repository}
}

// Select resolves the set of signals a generation run will consume. An empty
// result surfaces as ErrNoEligibleSignals so the orchestrator can skip the
// run without side effects.
func (s *Service) Select(ctx context.Context, userID uint, since time.Time, explicitIDs []uint) ([]models.Signal, error) {
	if len(explicitIDs) > 0 {
		return s.selectExplicit(ctx, userID, explicitIDs)
	}

	signals, err := s.repository.GetEligibleSignals(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	if len(signals) == 0 {
		return nil, ErrNoEligibleSignals
	}

	log.Printf("[DEBUG] Selected %d eligible signals for user %d (window since %s)",
		len(signals), userID, since.Format(time.RFC3339))

	return signals, nil
}

// selectExplicit resolves and verifies an explicit id list. Every id must
// exist, belong to the requesting user, and still be eligible.
func (s *Service) selectExplicit(ctx context.Context, userID uint, ids []uint) ([]models.Signal, error) {
	signals, err := s.repository.GetSignalsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint]*models.Signal, len(signals))
	for i := range signals {
		found[signals[i].ID] = &signals[i]
	}

	for _, id := range ids {
		signal, ok := found[id]
		if !ok {
			return nil, NewSelectionError(id, "not found")
		}
		if signal.UserID != userID {
			return nil, NewSelectionError(id, "belongs to another user")
		}
		if !signal.IsEligible() {
			return nil, NewSelectionError(id, fmt.Sprintf("status %s is not eligible", signal.Status))
		}
	}

	if len(signals) == 0 {
		return nil, ErrNoEligibleSignals
	}

	return signals, nil
}

// Create stores a new captured signal in pending state
func (s *Service) Create(ctx context.Context, userID uint, content string, kind models.SignalKind, channel string) (*models.Signal, error) {
	if content == "" {
		return nil, fmt.Errorf("signal content cannot be empty")
	}

	signal := &models.Signal{
		UserID:  userID,
		Content: content,
		Kind:    kind,
		Channel: channel,
		Status:  models.SignalStatusPending,
	}

	if err := s.repository.CreateSignal(ctx, signal); err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] Captured %s signal %d for user %d via %s", kind, signal.ID, userID, channel)

	return signal, nil
}

// ListByUser returns a page of a user's signals, newest first
func (s *Service) ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Signal, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repository.ListSignalsByUser(ctx, userID, page, limit)
}
