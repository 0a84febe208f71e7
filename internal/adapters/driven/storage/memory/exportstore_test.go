package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
)

func TestNewExportStore(t *testing.T) {
	store := NewExportStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.records)
}

func TestExportStore_Save_Success(t *testing.T) {
	store := NewExportStore()
	ctx := context.Background()

	now := time.Now()
	record := domain.ExportRecord{
		ID:           "exp-1",
		ReportID:     "rep-1",
		EmployeeName: "Jane Doe",
		Mode:         domain.ModePackage,
		State:        domain.StateComplete,
		Artifacts:    []string{"Jane_Doe_Compliance_Package.zip"},
		Stats:        domain.FetchStats{Attempted: 4, Fetched: 3, Failed: 1},
		StartedAt:    now,
		FinishedAt:   now.Add(5 * time.Second),
	}

	err := store.Save(ctx, record)
	require.NoError(t, err)

	saved, err := store.Get(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, "rep-1", saved.ReportID)
	assert.Equal(t, domain.ModePackage, saved.Mode)
	assert.Equal(t, domain.FetchStats{Attempted: 4, Fetched: 3, Failed: 1}, saved.Stats)
}

func TestExportStore_Save_Update(t *testing.T) {
	store := NewExportStore()
	ctx := context.Background()

	record := domain.ExportRecord{ID: "exp-1", State: domain.StateError, Error: "network down"}
	require.NoError(t, store.Save(ctx, record))

	record.State = domain.StateComplete
	record.Error = ""
	require.NoError(t, store.Save(ctx, record))

	saved, err := store.Get(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, saved.State)
	assert.Empty(t, saved.Error)
}

func TestExportStore_Get_NotFound(t *testing.T) {
	store := NewExportStore()

	record, err := store.Get(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, record)
}

func TestExportStore_List_MostRecentFirst(t *testing.T) {
	store := NewExportStore()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"exp-old", "exp-mid", "exp-new"} {
		require.NoError(t, store.Save(ctx, domain.ExportRecord{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "exp-new", records[0].ID)
	assert.Equal(t, "exp-mid", records[1].ID)
	assert.Equal(t, "exp-old", records[2].ID)
}

func TestExportStore_List_Empty(t *testing.T) {
	store := NewExportStore()

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExportStore_DataIsolation(t *testing.T) {
	store := NewExportStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.ExportRecord{
		ID:        "exp-1",
		Artifacts: []string{"report.pdf"},
	}))

	retrieved, err := store.Get(ctx, "exp-1")
	require.NoError(t, err)
	retrieved.ID = "mutated"

	original, err := store.Get(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, "exp-1", original.ID)
}

func TestExportStore_Concurrency_SaveAndList(t *testing.T) {
	store := NewExportStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	numGoroutines := 50

	wg.Add(numGoroutines * 2)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			_ = store.Save(ctx, domain.ExportRecord{
				ID:        fmt.Sprintf("exp-%d", id),
				StartedAt: time.Now(),
			})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, numGoroutines)
}
