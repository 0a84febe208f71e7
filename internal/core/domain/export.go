package domain

import "time"

// ExportMode selects which artifacts an export produces.
type ExportMode string

const (
	// ModeReport produces the PDF report only.
	ModeReport ExportMode = "report"

	// ModeSplit produces the PDF report plus a separate supporting
	// documents archive, delivered as two files.
	ModeSplit ExportMode = "split"

	// ModePackage produces a single archive containing the PDF report
	// and all supporting documents.
	ModePackage ExportMode = "package"
)

// Valid reports whether m is a known export mode.
func (m ExportMode) Valid() bool {
	switch m {
	case ModeReport, ModeSplit, ModePackage:
		return true
	}
	return false
}

// ExportState is the orchestrator's user-facing progress state.
type ExportState string

const (
	StateIdle               ExportState = "idle"
	StateGeneratingDocument ExportState = "generating-document"
	StateCreatingArchive    ExportState = "creating-archive"
	StateComplete           ExportState = "complete"
	StateError              ExportState = "error"
)

// InProgress reports whether the state is a running stage.
func (s ExportState) InProgress() bool {
	return s == StateGeneratingDocument || s == StateCreatingArchive
}

// Artifact is a produced binary blob, held only long enough to deliver.
type Artifact struct {
	// Filename is the name the blob is saved under.
	Filename string

	// Data is the blob content.
	Data []byte
}

// FetchStats aggregates attachment-fetch outcomes for one archive build.
// Documents without a remote URL are never counted: Attempted reflects
// fetches actually issued plus failures, so Attempted = Fetched + Failed.
type FetchStats struct {
	Attempted int
	Fetched   int
	Failed    int
}

// ExportRecord is the persisted outcome of one export invocation.
type ExportRecord struct {
	// ID is the unique identifier of the invocation.
	ID string

	// ReportID is the compliance report that was exported.
	ReportID string

	// EmployeeName is the report subject's full name.
	EmployeeName string

	// Mode is the requested export mode.
	Mode ExportMode

	// State is the terminal state, StateComplete or StateError.
	State ExportState

	// Artifacts lists the filenames delivered.
	Artifacts []string

	// Stats aggregates attachment-fetch outcomes. Zero for ModeReport.
	Stats FetchStats

	// Error is the user-displayable failure message, empty on success.
	Error string

	StartedAt  time.Time
	FinishedAt time.Time
}
