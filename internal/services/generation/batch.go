package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// BatchResult summarizes one sweep over the active users
type BatchResult struct {
	Processed int
	Generated int
	Skipped   int
	Failed    int
	Errors    []error
	Elapsed   time.Duration
}

// ProcessAllEligibleUsers runs the pipeline for every active user in turn.
// Users are processed sequentially to keep the load on the external
// synthesis and render services at one run at a time. One user's failure is
// recorded and the sweep continues.
func (s *Service) ProcessAllEligibleUsers(ctx context.Context, batchTimeout time.Duration) (*BatchResult, error) {
	if batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, batchTimeout)
		defer cancel()
	}

	activeUsers, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users for sweep: %w", err)
	}

	result := &BatchResult{}
	started := time.Now()
	log.Printf("[INFO] Generation sweep started for %d users", len(activeUsers))

	for _, user := range activeUsers {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, fmt.Errorf("sweep stopped early: %w", ctx.Err()))
			break
		}

		result.Processed++
		episode, err := s.Generate(ctx, GenerateRequest{UserID: user.ID})
		switch {
		case err == nil:
			result.Generated++
			log.Printf("[INFO] Sweep: episode %d ready for user %d", episode.ID, user.ID)
		case errors.Is(err, ErrNoSignals),
			errors.Is(err, ErrLimitExceeded),
			errors.Is(err, ErrGenerationInFlight):
			result.Skipped++
			log.Printf("[DEBUG] Sweep: skipped user %d: %v", user.ID, err)
		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("user %d: %w", user.ID, err))
			log.Printf("[ERROR] Sweep: user %d failed: %v", user.ID, err)
		}
	}

	result.Elapsed = time.Since(started)
	log.Printf("[INFO] Generation sweep finished in %s: %d generated, %d skipped, %d failed",
		result.Elapsed.Round(time.Second), result.Generated, result.Skipped, result.Failed)
	return result, nil
}
