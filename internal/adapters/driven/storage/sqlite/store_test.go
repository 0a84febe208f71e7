package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
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

func testRecord(id string, startedAt time.Time) domain.ExportRecord {
	return domain.ExportRecord{
		ID:           id,
		ReportID:     "rep-001",
		EmployeeName: "Jane Doe",
		Mode:         domain.ModePackage,
		State:        domain.StateComplete,
		Artifacts:    []string{"Jane_Doe_Compliance_Package.zip"},
		Stats:        domain.FetchStats{Attempted: 4, Fetched: 3, Failed: 1},
		StartedAt:    startedAt.UTC().Truncate(time.Second),
		FinishedAt:   startedAt.Add(5 * time.Second).UTC().Truncate(time.Second),
	}
}

// ==================== Store Creation Tests ====================

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "history.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.ExportStore().Save(context.Background(), testRecord("exp-1", time.Now())))
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations or lose data.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	record, err := store.ExportStore().Get(context.Background(), "exp-1")
	require.NoError(t, err)
	assert.Equal(t, "rep-001", record.ReportID)
}

// ==================== Export Store Tests ====================

func TestExportStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	exports := store.ExportStore()
	ctx := context.Background()

	original := testRecord("exp-1", time.Now())
	require.NoError(t, exports.Save(ctx, original))

	saved, err := exports.Get(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, original.ReportID, saved.ReportID)
	assert.Equal(t, original.EmployeeName, saved.EmployeeName)
	assert.Equal(t, original.Mode, saved.Mode)
	assert.Equal(t, original.State, saved.State)
	assert.Equal(t, original.Artifacts, saved.Artifacts)
	assert.Equal(t, original.Stats, saved.Stats)
	assert.Equal(t, original.StartedAt.Unix(), saved.StartedAt.Unix())
	assert.Equal(t, original.FinishedAt.Unix(), saved.FinishedAt.Unix())
	assert.Empty(t, saved.Error)
}

func TestExportStore_Save_Update(t *testing.T) {
	store := setupTestStore(t)
	exports := store.ExportStore()
	ctx := context.Background()

	record := testRecord("exp-1", time.Now())
	record.State = domain.StateError
	record.Error = "document generation failed"
	require.NoError(t, exports.Save(ctx, record))

	record.State = domain.StateComplete
	record.Error = ""
	require.NoError(t, exports.Save(ctx, record))

	saved, err := exports.Get(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, saved.State)
	assert.Empty(t, saved.Error)

	records, err := exports.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExportStore_Save_EmptyID(t *testing.T) {
	store := setupTestStore(t)

	err := store.ExportStore().Save(context.Background(), domain.ExportRecord{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportStore_Save_ErrorMessage(t *testing.T) {
	store := setupTestStore(t)
	exports := store.ExportStore()
	ctx := context.Background()

	record := testRecord("exp-err", time.Now())
	record.State = domain.StateError
	record.Error = "no report pages found in rendered view"
	record.Artifacts = nil
	require.NoError(t, exports.Save(ctx, record))

	saved, err := exports.Get(ctx, "exp-err")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, saved.State)
	assert.Equal(t, "no report pages found in rendered view", saved.Error)
	assert.Empty(t, saved.Artifacts)
}

func TestExportStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	record, err := store.ExportStore().Get(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, record)
}

func TestExportStore_List_MostRecentFirst(t *testing.T) {
	store := setupTestStore(t)
	exports := store.ExportStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, exports.Save(ctx, testRecord("exp-old", base.Add(-2*time.Hour))))
	require.NoError(t, exports.Save(ctx, testRecord("exp-new", base)))
	require.NoError(t, exports.Save(ctx, testRecord("exp-mid", base.Add(-time.Hour))))

	records, err := exports.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "exp-new", records[0].ID)
	assert.Equal(t, "exp-mid", records[1].ID)
	assert.Equal(t, "exp-old", records[2].ID)
}

func TestExportStore_List_Empty(t *testing.T) {
	store := setupTestStore(t)

	records, err := store.ExportStore().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
