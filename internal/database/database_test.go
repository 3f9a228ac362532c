package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(dbPath, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Signal{}, &models.Episode{}, &models.EpisodeSegment{}))
	return db
}

func TestInitialize_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "poddit.db")
	db, err := Initialize(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck())
}

func TestHealthCheck_NilDatabase(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck())
}

func TestAutoMigrate_CreatesTables(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"users", "signals", "episodes", "episode_segments"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}
