package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/br00kd0wnt0n/poddit-api/internal/database"
	"github.com/br00kd0wnt0n/poddit-api/internal/models"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/episodes"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/generation"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/notifications"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/script"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/signals"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/speech"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/users"
	"github.com/br00kd0wnt0n/poddit-api/pkg/config"
	"github.com/br00kd0wnt0n/poddit-api/pkg/ffmpeg"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one generation sweep and exit",
	Long: `Run the episode generation pipeline once, without starting the server.

By default every active user is processed in turn, the same way the
scheduled sweep does. Pass --user to generate for a single user only.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Uint("user", 0, "generate for a single user id instead of sweeping all")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
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
		return fmt.Errorf("audio tooling unavailable: %w", err)
	}

	service, _, _ := buildGenerationService(cfg, db, ffm)

	ctx := cmd.Context()

	userID, _ := cmd.Flags().GetUint("user")
	if userID > 0 {
		episode, err := service.Generate(ctx, generation.GenerateRequest{UserID: userID, Manual: true})
		if err != nil {
			return fmt.Errorf("generating for user %d: %w", userID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Episode %d ready: %s (%d signals, %.0fs)\n",
			episode.ID, episode.AudioPath, episode.SignalCount, episode.Duration)
		return nil
	}

	result, err := service.ProcessAllEligibleUsers(ctx, cfg.Generation.BatchTimeout)
	if err != nil {
		return fmt.Errorf("running sweep: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sweep finished in %s: %d processed, %d generated, %d skipped, %d failed\n",
		result.Elapsed.Round(time.Millisecond), result.Processed, result.Generated, result.Skipped, result.Failed)
	for _, runErr := range result.Errors {
		fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", runErr)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d user(s) failed", result.Failed)
	}
	return nil
}

// buildGenerationService wires the full pipeline. It returns the episode
// and signal services alongside so serve can hand them to the HTTP layer.
func buildGenerationService(cfg *config.Config, db *database.DB, ffm *ffmpeg.FFmpeg) (*generation.Service, episodes.EpisodeService, signals.SelectorService) {
	episodeService := episodes.NewService(episodes.NewRepository(db.DB))
	signalService := signals.NewService(signals.NewRepository(db.DB))

	quotaWindow := cfg.Generation.QuotaWindow
	gate := generation.NewMemoryGate(func(ctx context.Context, userID uint) (int64, error) {
		return episodeService.CountSince(ctx, userID, time.Now().Add(-quotaWindow))
	}, cfg.Generation.RetryAfter)

	generationService := generation.NewService(
		users.NewRepository(db.DB),
		signalService,
		script.NewService(
			script.NewClient(script.Config{
				APIKey:      cfg.Synthesis.APIKey,
				BaseURL:     cfg.Synthesis.BaseURL,
				Model:       cfg.Synthesis.Model,
				Temperature: cfg.Synthesis.Temperature,
				UserAgent:   cfg.Synthesis.UserAgent,
				Timeout:     cfg.Synthesis.Timeout,
			}),
			cfg.Generation.DefaultTimezone,
		),
		speech.NewClient(speech.Config{
			APIKey:  cfg.Speech.APIKey,
			BaseURL: cfg.Speech.BaseURL,
			Model:   cfg.Speech.Model,
			Voice:   cfg.Speech.Voice,
			Format:  cfg.Speech.Format,
			Timeout: cfg.Speech.Timeout,
		}, ffm),
		ffm,
		episodeService,
		notifications.NewNotifier(cfg.Notifications.Endpoint, cfg.Notifications.Timeout),
		gate,
		generation.Config{
			MainBedPath:       filepath.Join(cfg.Audio.BedDir, cfg.Audio.MainBedFile),
			EpilogueBedPath:   filepath.Join(cfg.Audio.BedDir, cfg.Audio.EpilogueBed),
			MainBedVolume:     cfg.Audio.MainBedVolume,
			EpilogueBedVolume: cfg.Audio.EpilogueBedVolume,
			EpilogueTail:      cfg.Audio.EpilogueTail,
			ConcatGap:         cfg.Audio.ConcatGap,
			OutputDir:         cfg.Audio.OutputDir,
			TempDir:           cfg.Storage.TempDir,
			LookbackWindow:    cfg.Generation.LookbackWindow,
			RunTimeout:        cfg.Generation.RunTimeout,
			EpisodeLimit:      cfg.Generation.EpisodeLimit,
		},
	)
	return generationService, episodeService, signalService
}
