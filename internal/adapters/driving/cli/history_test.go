package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
)

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_HasShowSubcommand(t *testing.T) {
	commands := historyCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
}

func TestHistoryCmd_ErrorsWithoutStore(t *testing.T) {
	oldStore := exportStore
	exportStore = nil
	defer func() { exportStore = oldStore }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestHistoryCmd_EmptyStore(t *testing.T) {
	cleanup := setupTestServices(&mockExporter{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No exports recorded.")
}

func TestHistoryCmd_ListsRecords(t *testing.T) {
	cleanup := setupTestServices(&mockExporter{})
	defer cleanup()

	require.NoError(t, exportStore.Save(context.Background(), domain.ExportRecord{
		ID:           "exp-1",
		EmployeeName: "Jane Doe",
		Mode:         domain.ModeSplit,
		State:        domain.StateComplete,
		StartedAt:    time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "exp-1")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "split")
	assert.Contains(t, out, "2026-03-10 09:30:00")
}

func TestHistoryShowCmd_RequiresID(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestHistoryShowCmd_UnknownID(t *testing.T) {
	cleanup := setupTestServices(&mockExporter{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history", "show", "exp-missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no export with id exp-missing")
}

func TestHistoryShowCmd_DisplaysRecord(t *testing.T) {
	cleanup := setupTestServices(&mockExporter{})
	defer cleanup()

	started := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, exportStore.Save(context.Background(), domain.ExportRecord{
		ID:           "exp-1",
		ReportID:     "rep-001",
		EmployeeName: "Jane Doe",
		Mode:         domain.ModePackage,
		State:        domain.StateError,
		Artifacts:    []string{"Jane_Doe_Compliance_Report.pdf"},
		Stats:        domain.FetchStats{Attempted: 4, Fetched: 3, Failed: 1},
		Error:        "archive build failed",
		StartedAt:    started,
		FinishedAt:   started.Add(12 * time.Second),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history", "show", "exp-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "rep-001")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Jane_Doe_Compliance_Report.pdf")
	assert.Contains(t, out, "3 fetched, 1 failed (4 attempted)")
	assert.Contains(t, out, "archive build failed")
}
