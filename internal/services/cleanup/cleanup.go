package cleanup

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service removes stale scratch audio left behind by interrupted generation
// runs. Completed runs delete their own scratch files; this sweeper catches
// what a crash or kill left on disk.
type Service struct {
	tempDir         string
	maxAge          time.Duration
	cleanupInterval time.Duration
	cancel          context.CancelFunc
}

// NewService creates a new cleanup service
func NewService(tempDir string, maxAge, cleanupInterval time.Duration) *Service {
	return &Service{
		tempDir:         tempDir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
	}
}

// Start begins the cleanup service
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Run initial cleanup
	s.Sweep()

	// Run periodic cleanup
	go func() {
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				log.Println("[INFO] Cleanup service stopped")
				return
			}
		}
	}()

	log.Printf("[INFO] Cleanup service started (interval: %v, max age: %v)", s.cleanupInterval, s.maxAge)
}

// Stop stops the cleanup service
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Sweep removes stale scratch files once
func (s *Service) Sweep() {
	if _, err := os.Stat(s.tempDir); os.IsNotExist(err) {
		return
	}

	err := filepath.Walk(s.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files with errors
		}

		if info.IsDir() {
			return nil
		}

		// Scratch files are named episode-<id>-<part>.mp3
		if strings.HasPrefix(info.Name(), "episode-") && strings.HasSuffix(info.Name(), ".mp3") {
			if time.Since(info.ModTime()) > s.maxAge {
				log.Printf("[DEBUG] Removing stale scratch file: %s", path)
				if err := os.Remove(path); err != nil {
					log.Printf("[WARN] Failed to remove scratch file %s: %v", path, err)
				}
			}
		}

		return nil
	})

	if err != nil {
		log.Printf("[ERROR] Cleanup walk error: %v", err)
	}
}
