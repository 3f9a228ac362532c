package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/episodes"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/notifications"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/script"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/signals"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/speech"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/users"
	"github.com/br00kd0wnt0n/poddit-api/pkg/ffmpeg"
)

// Config carries the fixed constants one generation run works with
type Config struct {
	MainBedPath     string
	EpilogueBedPath string

	MainBedVolume     float64
	EpilogueBedVolume float64
	EpilogueTail      float64
	ConcatGap         float64

	OutputDir string
	TempDir   string

	LookbackWindow time.Duration
	RunTimeout     time.Duration
	EpisodeLimit   int
}

// GenerateRequest describes one requested generation run
type GenerateRequest struct {
	UserID uint
	// SignalIDs forces an explicit selection; empty means the lookback
	// window decides
	SignalIDs []uint
	// Since overrides the window start; zero means now minus lookback
	Since time.Time
	// Manual marks a caller-initiated run, as opposed to the scheduled
	// sweep; recorded in the run log for provenance
	Manual bool
	// EpisodeLimit overrides the quota limit for this request; zero means
	// the user or configured default applies
	EpisodeLimit int
}

// Service drives the full pipeline for one user at a time: select signals,
// synthesize the script, render speech, mix, assemble, persist.
type Service struct {
	users    users.UserRepository
	signals  signals.SelectorService
	composer script.ComposerService
	speech   speech.Synthesizer
	audio    AudioProcessor
	episodes episodes.EpisodeService
	notifier notifications.Notifier
	gate     Gate
	cfg      Config
}

// NewService creates a new generation orchestrator
func NewService(
	userRepo users.UserRepository,
	selector signals.SelectorService,
	composer script.ComposerService,
	synthesizer speech.Synthesizer,
	audio AudioProcessor,
	episodeService episodes.EpisodeService,
	notifier notifications.Notifier,
	gate Gate,
	cfg Config,
) *Service {
	return &Service{
		users:    userRepo,
		signals:  selector,
		composer: composer,
		speech:   synthesizer,
		audio:    audio,
		episodes: episodeService,
		notifier: notifier,
		gate:     gate,
		cfg:      cfg,
	}
}

// Generate runs the pipeline end to end for one user. The episode row is
// created before any expensive work, advances generating -> synthesizing ->
// ready, and is marked failed (with its signals released) on any fatal
// stage error. Recoverable stage failures degrade and continue.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*models.Episode, error) {
	user, err := s.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Limit precedence: request override, then user override, then config
	limit := s.cfg.EpisodeLimit
	if user.EpisodeLimit > 0 {
		limit = user.EpisodeLimit
	}
	if req.EpisodeLimit > 0 {
		limit = req.EpisodeLimit
	}

	lease, err := s.gate.Acquire(ctx, req.UserID, limit)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	runCtx := ctx
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	since := req.Since
	if since.IsZero() {
		since = time.Now().Add(-s.cfg.LookbackWindow)
	}

	episode, err := s.episodes.Create(runCtx, req.UserID, since, time.Now())
	if err != nil {
		return nil, err
	}
	trigger := "scheduled"
	if req.Manual {
		trigger = "manual"
	}
	log.Printf("[INFO] Generation run started: episode %d, user %d (%s)", episode.ID, req.UserID, trigger)

	selected, err := s.signals.Select(runCtx, req.UserID, since, req.SignalIDs)
	if err != nil {
		if errors.Is(err, signals.ErrNoEligibleSignals) {
			// Empty window is a skip, not a failure; leave nothing behind
			if discardErr := s.episodes.Discard(context.Background(), episode.ID); discardErr != nil {
				log.Printf("[WARN] Could not discard empty episode %d: %v", episode.ID, discardErr)
			}
			return nil, fmt.Errorf("%w: user %d", ErrNoSignals, req.UserID)
		}
		if discardErr := s.episodes.Discard(context.Background(), episode.ID); discardErr != nil {
			log.Printf("[WARN] Could not discard episode %d: %v", episode.ID, discardErr)
		}
		return nil, err
	}

	signalIDs := make([]uint, 0, len(selected))
	for _, signal := range selected {
		signalIDs = append(signalIDs, signal.ID)
	}

	composed, err := s.composer.Compose(runCtx, user, selected)
	if err != nil {
		return nil, s.fail(runCtx, episode.ID, user, signalIDs, "synthesis", err)
	}
	if err := s.episodes.SetStatus(runCtx, episode.ID, models.EpisodeStatusSynthesizing); err != nil {
		return nil, s.fail(runCtx, episode.ID, user, signalIDs, "synthesis", err)
	}

	scratch := func(part string) string {
		return filepath.Join(s.cfg.TempDir, fmt.Sprintf("episode-%d-%s.mp3", episode.ID, part))
	}
	var scratchFiles []string
	defer func() {
		for _, path := range scratchFiles {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("[WARN] Could not remove scratch file %s: %v", path, err)
			}
		}
	}()

	mainAudio, err := s.speech.Synthesize(runCtx, composed.MainText, scratch("main"))
	if err != nil {
		return nil, s.fail(runCtx, episode.ID, user, signalIDs, "render-main", speech.NewRenderError("main", err))
	}
	scratchFiles = append(scratchFiles, mainAudio.Path)

	// The epilogue is optional from here on: a failed render drops it
	epiloguePath := ""
	epilogueAudio, err := s.speech.Synthesize(runCtx, composed.EpilogueText, scratch("epilogue"))
	if err != nil {
		log.Printf("[WARN] Episode %d: epilogue render failed, dropping epilogue: %v", episode.ID, err)
	} else {
		epiloguePath = epilogueAudio.Path
		scratchFiles = append(scratchFiles, epilogueAudio.Path)
	}

	mainPath := s.mixPart(runCtx, episode.ID, "main", mainAudio.Path, s.cfg.MainBedPath,
		scratch("main-mixed"), ffmpeg.MainMixOptions(s.cfg.MainBedVolume), &scratchFiles)

	if epiloguePath != "" {
		epiloguePath = s.mixPart(runCtx, episode.ID, "epilogue", epiloguePath, s.cfg.EpilogueBedPath,
			scratch("epilogue-mixed"), ffmpeg.EpilogueMixOptions(s.cfg.EpilogueBedVolume, s.cfg.EpilogueTail), &scratchFiles)
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return nil, s.fail(runCtx, episode.ID, user, signalIDs, "assemble", err)
	}
	finalPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("episode-%d.mp3", episode.ID))

	duration, err := s.audio.Concatenate(runCtx, mainPath, epiloguePath, finalPath, s.cfg.ConcatGap)
	if err != nil {
		return nil, s.fail(runCtx, episode.ID, user, signalIDs, "assemble", err)
	}

	episode.Title = composed.Title
	episode.Summary = composed.Summary
	episode.Script = composed.MainText
	episode.EpilogueScript = composed.EpilogueText
	episode.Topics = composed.Topics
	episode.AudioPath = finalPath
	episode.Duration = duration
	episode.Segments = make([]models.EpisodeSegment, 0, len(composed.Segments))
	for _, segment := range composed.Segments {
		episode.Segments = append(episode.Segments, models.EpisodeSegment{
			Text:    segment.Text,
			Sources: models.SourceList(segment.Sources),
		})
	}

	if err := s.episodes.Finalize(runCtx, episode, signalIDs); err != nil {
		return nil, s.fail(runCtx, episode.ID, user, signalIDs, "persist", err)
	}

	// Best-effort; the run already succeeded
	if err := s.notifier.NotifyEpisodeReady(context.Background(), episode, user.NotifyTopic); err != nil {
		log.Printf("[WARN] Episode %d: ready notification failed: %v", episode.ID, err)
	}

	log.Printf("[INFO] Generation run finished: episode %d ready (%.2fs, %d signals)",
		episode.ID, duration, len(signalIDs))
	return episode, nil
}

// mixPart mixes one narration part against its bed, falling back to the
// unmixed narration when the bed is missing or the mix fails
func (s *Service) mixPart(ctx context.Context, episodeID uint, part, narrationPath, bedPath, outPath string, opts ffmpeg.MixOptions, scratchFiles *[]string) string {
	if err := s.audio.MixWithBed(ctx, narrationPath, bedPath, outPath, opts); err != nil {
		if errors.Is(err, ffmpeg.ErrBedNotFound) {
			log.Printf("[WARN] Episode %d: %s bed missing, using unmixed narration", episodeID, part)
		} else {
			log.Printf("[WARN] Episode %d: %s mix failed, using unmixed narration: %v", episodeID, part, err)
		}
		return narrationPath
	}
	*scratchFiles = append(*scratchFiles, outPath)
	return outPath
}

// fail marks the episode failed, releases its signals, and wraps the stage
// error. Bookkeeping runs on a fresh context so a run timeout cannot block
// its own cleanup.
func (s *Service) fail(ctx context.Context, episodeID uint, user *models.User, signalIDs []uint, stage string, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		cause = fmt.Errorf("%w: %v", ErrRunTimeout, cause)
	}
	wrapped := NewStageError(stage, cause)

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.episodes.MarkFailed(cleanupCtx, episodeID, wrapped, signalIDs); err != nil {
		log.Printf("[ERROR] Episode %d: could not record failure: %v", episodeID, err)
	}

	if err := s.notifier.NotifyGenerationFailed(cleanupCtx, user.ID, user.NotifyTopic, wrapped); err != nil {
		log.Printf("[WARN] Episode %d: failure notification failed: %v", episodeID, err)
	}

	return wrapped
}
