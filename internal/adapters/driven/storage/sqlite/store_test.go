package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/storetest"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func TestRecordStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) driven.RecordStore {
		return setupTestStore(t).RecordStore()
	})
}

func TestNewStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "paperhelper.db"), store.Path())
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.RecordStore().SaveRecord(ctx, storetest.NewRecord("abc")))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	record, err := second.RecordStore().GetRecord(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, record.Status)
}

func TestRecordStore_StatusConstraint(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.db.Exec(`INSERT INTO records (id, filename, storage_path, status, uploaded_at)
		VALUES ('bad', 'f', 'p', 'archived', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestRecordStore_NullColumns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`INSERT INTO records (id, filename, storage_path, status, uploaded_at)
		VALUES ('raw', 'f.txt', '/p', 'pending', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	record, err := store.RecordStore().GetRecord(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, record.Status)
	assert.Nil(t, record.Error)
	assert.Nil(t, record.Artifacts)
	assert.NotNil(t, record.Metadata)
	assert.Empty(t, record.Metadata)
}
