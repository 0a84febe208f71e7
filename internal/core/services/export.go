package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driving"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.Exporter = (*ExportService)(nil)

// completeIdleDelay is how long the complete state is held before the
// orchestrator returns to idle (closing any presentation dialog).
const completeIdleDelay = 1500 * time.Millisecond

// ExportService coordinates a full export request. The document is always
// rendered first; if that fails the archive step is never attempted, and
// nothing is delivered. Archive delivery and the archive build itself are
// all-or-nothing per stage, while individual attachments inside the build
// remain best-effort.
type ExportService struct {
	renderer *DocumentRenderer
	archive  *ArchiveBuilder
	sink     driven.BlobSink
	store    driven.ExportStore

	// Status tracking
	mu      sync.RWMutex
	running bool
	status  driving.ExportStatus

	idleDelay time.Duration
	now       func() time.Time
}

// NewExportService creates the orchestrator. The store is optional; when
// nil, invocations are not recorded.
func NewExportService(
	renderer *DocumentRenderer,
	archive *ArchiveBuilder,
	sink driven.BlobSink,
	store driven.ExportStore,
) *ExportService {
	return &ExportService{
		renderer:  renderer,
		archive:   archive,
		sink:      sink,
		store:     store,
		status:    driving.ExportStatus{State: domain.StateIdle},
		idleDelay: completeIdleDelay,
		now:       time.Now,
	}
}

// Export runs one export to completion or failure. A second concurrent
// call on the same service is rejected; after a failure the service is
// immediately re-invocable from idle.
func (s *ExportService) Export(
	ctx context.Context,
	report *domain.ComplianceReport,
	view *html.Node,
	mode domain.ExportMode,
) (*domain.ExportRecord, error) {
	if report == nil || !mode.Valid() {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrExportInProgress
	}
	s.running = true
	s.status = driving.ExportStatus{
		State:  domain.StateGeneratingDocument,
		Detail: "Generating PDF report...",
	}
	s.mu.Unlock()

	data := &report.Data
	record := domain.ExportRecord{
		ID:           uuid.NewString(),
		ReportID:     data.ID,
		EmployeeName: data.Profile.UserFullName,
		Mode:         mode,
		StartedAt:    s.now(),
	}
	logger.Section(fmt.Sprintf("Export %s", record.ID))
	logger.Info("Starting %s export for report %s", mode, data.ID)

	pdf, err := s.renderer.Render(ctx, view)
	if err != nil {
		return s.fail(ctx, record, err)
	}

	name := data.EmployeeFileName()
	pdfArtifact := domain.Artifact{
		Filename: name + "_Compliance_Report.pdf",
		Data:     pdf,
	}

	switch mode {
	case domain.ModeReport:
		if err := s.deliver(&record, pdfArtifact); err != nil {
			return s.fail(ctx, record, err)
		}

	case domain.ModeSplit:
		if err := s.deliver(&record, pdfArtifact); err != nil {
			return s.fail(ctx, record, err)
		}
		zipData, stats, err := s.buildArchive(ctx, report, nil)
		record.Stats = stats
		if err != nil {
			return s.fail(ctx, record, err)
		}
		archiveArtifact := domain.Artifact{
			Filename: name + "_Supporting_Documents.zip",
			Data:     zipData,
		}
		if err := s.deliver(&record, archiveArtifact); err != nil {
			return s.fail(ctx, record, err)
		}

	case domain.ModePackage:
		zipData, stats, err := s.buildArchive(ctx, report, []domain.Artifact{pdfArtifact})
		record.Stats = stats
		if err != nil {
			return s.fail(ctx, record, err)
		}
		packageArtifact := domain.Artifact{
			Filename: name + "_Compliance_Package.zip",
			Data:     zipData,
		}
		if err := s.deliver(&record, packageArtifact); err != nil {
			return s.fail(ctx, record, err)
		}
	}

	record.State = domain.StateComplete
	record.FinishedAt = s.now()
	s.saveRecord(ctx, record)

	s.setStatus(driving.ExportStatus{
		State:  domain.StateComplete,
		Detail: "Export complete",
	})
	s.finishLater()

	logger.Info("Export %s complete: %v", record.ID, record.Artifacts)
	return &record, nil
}

// Status returns a copy of the current progress state.
func (s *ExportService) Status() driving.ExportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// buildArchive runs the archive stage with status set accordingly.
func (s *ExportService) buildArchive(
	ctx context.Context,
	report *domain.ComplianceReport,
	embed []domain.Artifact,
) ([]byte, domain.FetchStats, error) {
	s.setStatus(driving.ExportStatus{
		State:  domain.StateCreatingArchive,
		Detail: "Fetching attachments and creating archive...",
	})
	return s.archive.Build(ctx, report, embed)
}

// deliver saves one artifact through the sink and records its filename.
func (s *ExportService) deliver(record *domain.ExportRecord, artifact domain.Artifact) error {
	if err := s.sink.Save(artifact); err != nil {
		return fmt.Errorf("deliver %s: %w", artifact.Filename, err)
	}
	record.Artifacts = append(record.Artifacts, artifact.Filename)
	logger.Info("Delivered: %s", artifact.Filename)
	return nil
}

// fail moves to the error state with a user-displayable message. The
// service stops running immediately, so the export can be retried by
// re-invoking.
func (s *ExportService) fail(ctx context.Context, record domain.ExportRecord, err error) (*domain.ExportRecord, error) {
	record.State = domain.StateError
	record.Error = err.Error()
	record.FinishedAt = s.now()
	s.saveRecord(ctx, record)

	s.mu.Lock()
	s.running = false
	s.status = driving.ExportStatus{
		State: domain.StateError,
		Error: err.Error(),
	}
	s.mu.Unlock()

	logger.Warn("Export %s failed: %v", record.ID, err)
	return &record, err
}

// finishLater releases the running flag and, after the fixed delay,
// returns a still-complete status to idle.
func (s *ExportService) finishLater() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	time.AfterFunc(s.idleDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.status.State == domain.StateComplete && !s.running {
			s.status = driving.ExportStatus{State: domain.StateIdle}
		}
	})
}

func (s *ExportService) setStatus(status driving.ExportStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// saveRecord persists the invocation outcome, best-effort.
func (s *ExportService) saveRecord(ctx context.Context, record domain.ExportRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, record); err != nil {
		logger.Warn("Failed to save export record %s: %v", record.ID, err)
	}
}
