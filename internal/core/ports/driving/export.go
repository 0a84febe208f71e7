package driving

import (
	"context"

	"golang.org/x/net/html"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
)

// Exporter coordinates a full export request: document rendering, optional
// archive building, and delivery of the produced artifacts.
type Exporter interface {
	// Export runs one export of the report in the given mode, rendering
	// the document from the live view. It blocks until the export
	// completes or fails; progress is observable through Status from
	// another goroutine.
	Export(ctx context.Context, report *domain.ComplianceReport, view *html.Node, mode domain.ExportMode) (*domain.ExportRecord, error)

	// Status returns a snapshot of the current progress state.
	Status() ExportStatus
}

// ExportStatus is a snapshot of the orchestrator's progress.
type ExportStatus struct {
	// State is the current stage.
	State domain.ExportState

	// Detail is a short human-readable description of the current step.
	Detail string

	// Error is the user-displayable message when State is StateError.
	Error string
}
