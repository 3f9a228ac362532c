package episodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Signal{}, &models.Episode{}, &models.EpisodeSegment{}))

	return NewService(NewRepository(db)), db
}

func seedEnrichedSignals(t *testing.T, db *gorm.DB, userID uint, n int) []uint {
	t.Helper()

	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		signal := &models.Signal{
			UserID:  userID,
			Content: "note",
			Kind:    models.SignalKindTopic,
			Status:  models.SignalStatusEnriched,
		}
		require.NoError(t, db.Create(signal).Error)
		ids = append(ids, signal.ID)
	}
	return ids
}

func TestCreate(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now()

	episode, err := svc.Create(ctx, 1, start, end)
	require.NoError(t, err)

	assert.NotZero(t, episode.ID)
	assert.Equal(t, models.EpisodeStatusGenerating, episode.Status)
	assert.False(t, episode.IsTerminal())
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 0, time.Now(), time.Now())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Create(ctx, 1, time.Now(), time.Now().Add(-time.Hour))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSetStatus(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, episode.ID, models.EpisodeStatusSynthesizing))

	fetched, err := svc.GetByID(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EpisodeStatusSynthesizing, fetched.Status)
}

func TestSetStatus_TerminalGuard(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Model(episode).Update("status", models.EpisodeStatusFailed).Error)

	err = svc.SetStatus(ctx, episode.ID, models.EpisodeStatusSynthesizing)
	assert.True(t, errors.Is(err, ErrEpisodeFinal))
}

func TestSetStatus_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)

	err := svc.SetStatus(context.Background(), 9999, models.EpisodeStatusSynthesizing)
	assert.True(t, IsNotFound(err))
}

func TestFinalize(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	signalIDs := seedEnrichedSignals(t, db, 1, 3)

	episode.Title = "Morning Roundup"
	episode.Script = "Main narration."
	episode.EpilogueScript = "That's your Poddit."
	episode.AudioPath = "/data/episodes/1.mp3"
	episode.Duration = 123.4
	episode.Segments = []models.EpisodeSegment{
		{Text: "First.", Sources: models.SourceList{{Name: "BBC"}}},
		{Text: "Second."},
	}

	require.NoError(t, svc.Finalize(ctx, episode, signalIDs))

	fetched, err := svc.GetByID(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EpisodeStatusReady, fetched.Status)
	assert.Equal(t, 3, fetched.SignalCount)
	assert.False(t, fetched.GeneratedAt.IsZero())
	require.Len(t, fetched.Segments, 2)
	assert.Equal(t, 0, fetched.Segments[0].Position)
	assert.Equal(t, "First.", fetched.Segments[0].Text)

	var signals []models.Signal
	require.NoError(t, db.Where("id IN ?", signalIDs).Find(&signals).Error)
	for _, signal := range signals {
		assert.Equal(t, models.SignalStatusUsed, signal.Status)
		require.NotNil(t, signal.EpisodeID)
		assert.Equal(t, episode.ID, *signal.EpisodeID)
	}
}

func TestFinalize_RequiresAudio(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	err = svc.Finalize(ctx, episode, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestMarkFailed(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	signalIDs := seedEnrichedSignals(t, db, 1, 2)

	require.NoError(t, svc.MarkFailed(ctx, episode.ID, errors.New("synthesis timed out"), signalIDs))

	fetched, err := svc.GetByID(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EpisodeStatusFailed, fetched.Status)
	assert.Equal(t, "synthesis timed out", fetched.ErrorMessage)

	var signals []models.Signal
	require.NoError(t, db.Where("id IN ?", signalIDs).Find(&signals).Error)
	for _, signal := range signals {
		assert.Equal(t, models.SignalStatusEnriched, signal.Status)
		assert.Nil(t, signal.EpisodeID)
	}
}

func TestDiscard(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, episode.ID))

	_, err = svc.GetByID(ctx, episode.ID)
	assert.True(t, IsNotFound(err))
}

func TestDiscard_TerminalGuard(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Model(episode).Update("status", models.EpisodeStatusReady).Error)

	err = svc.Discard(ctx, episode.ID)
	assert.True(t, errors.Is(err, ErrEpisodeFinal))
}

func TestCountSince_ExcludesFailed(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	e1, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Model(e1).Update("status", models.EpisodeStatusFailed).Error)

	count, err := svc.CountSince(ctx, 1, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecordPlay(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	episode, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	// Not ready yet
	_, err = svc.RecordPlay(ctx, episode.ID)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	require.NoError(t, db.Model(episode).Update("status", models.EpisodeStatusReady).Error)

	played, err := svc.RecordPlay(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, played.PlayCount)

	played, err = svc.RecordPlay(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, played.PlayCount)
}

func TestListByUser(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, 1, time.Now().Add(-time.Hour), time.Now())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, 2, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	page, total, err := svc.ListByUser(ctx, 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 3)

	page, _, err = svc.ListByUser(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
