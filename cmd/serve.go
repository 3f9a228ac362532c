package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/br00kd0wnt0n/poddit-api/api"
	"github.com/br00kd0wnt0n/poddit-api/api/types"
	"github.com/br00kd0wnt0n/poddit-api/internal/database"
	"github.com/br00kd0wnt0n/poddit-api/internal/models"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/cleanup"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/generation"
	"github.com/br00kd0wnt0n/poddit-api/pkg/assets"
	"github.com/br00kd0wnt0n/poddit-api/pkg/config"
	"github.com/br00kd0wnt0n/poddit-api/pkg/ffmpeg"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Poddit API server",
	Long: `Start the Poddit API server.

The server accepts signal capture and episode requests over HTTP, and
optionally runs the scheduled batch sweep that generates episodes for
every active user.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "override the configured listen port")
	serveCmd.Flags().String("host", "", "override the configured listen host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARN] Closing database: %v", err)
		}
	}()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Signal{},
		&models.Episode{},
		&models.EpisodeSegment{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	ffm := ffmpeg.New(cfg.Audio.FFmpegPath, cfg.Audio.FFprobePath, cfg.Audio.Timeout)
	if err := ffm.ValidateBinaries(); err != nil {
		log.Printf("[WARN] Audio tooling unavailable, generation will fail: %v", err)
	}

	generationService, episodeService, signalService := buildGenerationService(cfg, db, ffm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing bed only degrades the mix, so a failed fetch is not fatal
	if cfg.Audio.BedBaseURL != "" {
		fetchOpts := assets.DefaultOptions()
		fetchOpts.Validator = ffm
		fetcher := assets.NewFetcher(fetchOpts)
		for _, file := range []string{cfg.Audio.MainBedFile, cfg.Audio.EpilogueBed} {
			url := strings.TrimSuffix(cfg.Audio.BedBaseURL, "/") + "/" + file
			if err := fetcher.EnsurePresent(ctx, url, filepath.Join(cfg.Audio.BedDir, file)); err != nil {
				log.Printf("[WARN] Fetching bed asset %s: %v", file, err)
			}
		}
	}

	cleanupService := cleanup.NewService(cfg.Storage.TempDir, cfg.Storage.MaxTempAge, cfg.Storage.CleanupInterval)
	cleanupService.Start(ctx)
	defer cleanupService.Stop()

	var scheduler *generation.Scheduler
	if cfg.Generation.ScheduleInterval > 0 {
		scheduler = generation.NewScheduler(generationService, cfg.Generation.ScheduleInterval, cfg.Generation.BatchTimeout)
		scheduler.Start(ctx)
		defer scheduler.Stop()
		log.Printf("[INFO] Batch scheduler enabled, interval %s", cfg.Generation.ScheduleInterval)
	}

	server := api.NewServer(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	server.SetDatabase(db)
	server.SetDependencies(&types.Dependencies{
		DB:                db,
		EpisodeService:    episodeService,
		SignalService:     signalService,
		GenerationService: generationService,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Poddit API listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Printf("[INFO] Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Printf("[INFO] Server stopped")
	return nil
}
