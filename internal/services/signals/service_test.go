package signals

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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Signal{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	return NewService(NewRepository(db)), db
}

func seedSignal(t *testing.T, db *gorm.DB, userID uint, status models.SignalStatus, createdAt time.Time) *models.Signal {
	t.Helper()

	signal := &models.Signal{
		UserID:  userID,
		Content: "seeded content",
		Kind:    models.SignalKindTopic,
		Status:  status,
	}
	require.NoError(t, db.Create(signal).Error)
	require.NoError(t, db.Model(signal).Update("created_at", createdAt).Error)
	signal.CreatedAt = createdAt
	return signal
}

func TestSelect_TimeWindow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedSignal(t, db, 1, models.SignalStatusEnriched, now.Add(-2*time.Hour))
	seedSignal(t, db, 1, models.SignalStatusQueued, now.Add(-1*time.Hour))
	// Outside the window
	seedSignal(t, db, 1, models.SignalStatusEnriched, now.Add(-48*time.Hour))
	// Wrong status
	seedSignal(t, db, 1, models.SignalStatusUsed, now.Add(-1*time.Hour))
	seedSignal(t, db, 1, models.SignalStatusPending, now.Add(-1*time.Hour))
	// Wrong user
	seedSignal(t, db, 2, models.SignalStatusEnriched, now.Add(-1*time.Hour))

	selected, err := svc.Select(ctx, 1, now.Add(-24*time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, selected, 2)

	// Ordered by creation time
	assert.True(t, selected[0].CreatedAt.Before(selected[1].CreatedAt))
}

func TestSelect_EmptyWindow(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Select(context.Background(), 1, time.Now().Add(-24*time.Hour), nil)
	assert.True(t, errors.Is(err, ErrNoEligibleSignals))
}

func TestSelect_ExplicitIDs(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := seedSignal(t, db, 1, models.SignalStatusEnriched, now.Add(-3*time.Hour))
	b := seedSignal(t, db, 1, models.SignalStatusPending, now.Add(-2*time.Hour))

	selected, err := svc.Select(ctx, 1, time.Time{}, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, selected, 2)
}

func TestSelect_ExplicitForeignSignal(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	foreign := seedSignal(t, db, 2, models.SignalStatusEnriched, time.Now().UTC())

	_, err := svc.Select(ctx, 1, time.Time{}, []uint{foreign.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelectionInvalid))
}

func TestSelect_ExplicitUsedSignal(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	used := seedSignal(t, db, 1, models.SignalStatusUsed, time.Now().UTC())

	_, err := svc.Select(ctx, 1, time.Time{}, []uint{used.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelectionInvalid))
}

func TestSelect_ExplicitUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Select(context.Background(), 1, time.Time{}, []uint{9999})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelectionInvalid))
}

func TestCreate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	signal, err := svc.Create(ctx, 1, "https://example.com/article", models.SignalKindLink, "extension")
	require.NoError(t, err)
	assert.NotZero(t, signal.ID)
	assert.Equal(t, models.SignalStatusPending, signal.Status)

	var stored models.Signal
	require.NoError(t, db.First(&stored, signal.ID).Error)
	assert.Equal(t, models.SignalKindLink, stored.Kind)
}

func TestCreate_EmptyContent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 1, "", models.SignalKindTopic, "api")
	assert.Error(t, err)
}

func TestListByUser_Paginates(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 25; i++ {
		seedSignal(t, db, 1, models.SignalStatusEnriched, now.Add(-time.Duration(i)*time.Minute))
	}

	page, total, err := svc.ListByUser(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page, 10)
}
