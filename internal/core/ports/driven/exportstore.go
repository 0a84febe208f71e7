package driven

import (
	"context"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
)

// ExportStore persists export invocation records.
type ExportStore interface {
	// Save stores or updates an export record.
	Save(ctx context.Context, record domain.ExportRecord) error

	// Get retrieves an export record by invocation id.
	Get(ctx context.Context, id string) (*domain.ExportRecord, error)

	// List returns all export records, most recent first.
	List(ctx context.Context) ([]domain.ExportRecord, error)
}
