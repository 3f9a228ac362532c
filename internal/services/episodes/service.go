package episodes

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// Service provides business logic for the episode lifecycle
type Service struct {
	repository EpisodeRepository
}

// Ensure Service implements EpisodeService interface
var _ EpisodeService = (*Service)(nil)

// NewService creates a new episode service
func NewService(repository EpisodeRepository) *Service {
	return &Service{repository: repository}
}

// Create records a new episode in the generating state. The record exists
// from the start of the run so its failure is visible too.
func (s *Service) Create(ctx context.Context, userID uint, periodStart, periodEnd time.Time) (*models.Episode, error) {
	if userID == 0 {
		return nil, NewValidationError("user_id", "must not be zero")
	}
	if periodEnd.Before(periodStart) {
		return nil, NewValidationError("period_end", "must not precede period_start")
	}

	episode := &models.Episode{
		UserID:      userID,
		Status:      models.EpisodeStatusGenerating,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	if err := s.repository.CreateEpisode(ctx, episode); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Created episode %d for user %d (period %s to %s)",
		episode.ID, userID, periodStart.Format(time.RFC3339), periodEnd.Format(time.RFC3339))
	return episode, nil
}

// SetStatus advances a non-terminal episode to the given status
func (s *Service) SetStatus(ctx context.Context, id uint, status models.EpisodeStatus) error {
	episode, err := s.repository.GetEpisodeByID(ctx, id)
	if err != nil {
		return err
	}
	if episode.IsTerminal() {
		return fmt.Errorf("%w: episode %d is %s", ErrEpisodeFinal, id, episode.Status)
	}
	return s.repository.UpdateEpisodeStatus(ctx, id, status)
}

// Finalize stores the finished artifact and consumes the signals it was
// built from
func (s *Service) Finalize(ctx context.Context, episode *models.Episode, signalIDs []uint) error {
	if episode.AudioPath == "" {
		return NewValidationError("audio_path", "must not be empty")
	}

	episode.SignalCount = len(signalIDs)
	episode.GeneratedAt = time.Now()

	if err := s.repository.FinalizeEpisode(ctx, episode, signalIDs); err != nil {
		return err
	}

	log.Printf("[INFO] Episode %d ready: %.2fs of audio from %d signals",
		episode.ID, episode.Duration, len(signalIDs))
	return nil
}

// MarkFailed records the failure cause and releases the run's signals back
// to the eligible pool
func (s *Service) MarkFailed(ctx context.Context, id uint, cause error, signalIDs []uint) error {
	message := "generation failed"
	if cause != nil {
		message = cause.Error()
	}

	if err := s.repository.FailEpisode(ctx, id, message, signalIDs); err != nil {
		return err
	}

	log.Printf("[WARN] Episode %d failed, released %d signals: %s", id, len(signalIDs), message)
	return nil
}

// Discard removes an episode row that never produced anything, so an empty
// selection leaves no partial artifact behind
func (s *Service) Discard(ctx context.Context, id uint) error {
	episode, err := s.repository.GetEpisodeByID(ctx, id)
	if err != nil {
		return err
	}
	if episode.IsTerminal() {
		return fmt.Errorf("%w: episode %d is %s", ErrEpisodeFinal, id, episode.Status)
	}

	if err := s.repository.DeleteEpisode(ctx, id); err != nil {
		return err
	}

	log.Printf("[DEBUG] Discarded empty episode %d", id)
	return nil
}

// GetByID returns one episode with its segments
func (s *Service) GetByID(ctx context.Context, id uint) (*models.Episode, error) {
	return s.repository.GetEpisodeByID(ctx, id)
}

// ListByUser returns one page of a user's episodes, newest first
func (s *Service) ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Episode, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repository.ListEpisodesByUser(ctx, userID, page, limit)
}

// CountSince reports how many non-failed episodes the user has started in
// the window, for quota checks
func (s *Service) CountSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	return s.repository.CountEpisodesSince(ctx, userID, since)
}

// RecordPlay increments the play counter and returns the updated episode
func (s *Service) RecordPlay(ctx context.Context, id uint) (*models.Episode, error) {
	episode, err := s.repository.GetEpisodeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if episode.Status != models.EpisodeStatusReady {
		return nil, NewValidationError("status", "episode is not ready for playback")
	}

	if err := s.repository.IncrementPlayCount(ctx, id); err != nil {
		return nil, err
	}

	episode.PlayCount++
	return episode, nil
}
