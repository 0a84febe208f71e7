package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/net/html"

	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/storage/memory"
	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driving"
)

// mockExporter records the last invocation and returns a canned outcome.
type mockExporter struct {
	record *domain.ExportRecord
	err    error

	lastMode   domain.ExportMode
	lastReport *domain.ComplianceReport
	calls      int
}

func (m *mockExporter) Export(
	_ context.Context, report *domain.ComplianceReport, _ *html.Node, mode domain.ExportMode,
) (*domain.ExportRecord, error) {
	m.calls++
	m.lastMode = mode
	m.lastReport = report
	return m.record, m.err
}

func (m *mockExporter) Status() driving.ExportStatus {
	return driving.ExportStatus{State: domain.StateIdle}
}

// setupTestServices wires mock services and returns a cleanup restoring
// the previous wiring.
func setupTestServices(exp *mockExporter) func() {
	oldExporter := exporter
	oldURLDirectory := urlDirectory
	oldExportStore := exportStore
	oldConfigStore := configStore

	exporter = exp
	urlDirectory = nil
	exportStore = memory.NewExportStore()
	configStore = nil

	return func() {
		exporter = oldExporter
		urlDirectory = oldURLDirectory
		exportStore = oldExportStore
		configStore = oldConfigStore
	}
}

// writeTestInputs writes a minimal report JSON and view HTML pair and
// returns their paths.
func writeTestInputs(t *testing.T) (reportPath, viewPath string) {
	t.Helper()
	dir := t.TempDir()

	reportPath = filepath.Join(dir, "report.json")
	reportJSON := `{
		"status": "success",
		"data": {
			"id": "rep-001",
			"profile": {"user_full_name": "Jane Doe"}
		}
	}`
	if err := os.WriteFile(reportPath, []byte(reportJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	viewPath = filepath.Join(dir, "view.html")
	viewHTML := `<html><body><div data-page="cover"><h1>Jane Doe</h1></div></body></html>`
	if err := os.WriteFile(viewPath, []byte(viewHTML), 0o600); err != nil {
		t.Fatal(err)
	}
	return reportPath, viewPath
}
