package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoReportPages indicates no report page markers were found in the
	// live view. An export with no content is invalid, as opposed to an
	// export where some sections are empty.
	ErrNoReportPages = errors.New("no report pages found in rendered view")

	// ErrArchiveStructure indicates the archive folder skeleton could not
	// be created. This is an environment error, fatal to the export, not
	// a per-attachment data error.
	ErrArchiveStructure = errors.New("failed to create archive structure")

	// ErrRenderFailed indicates the rasterize-to-document engine rejected
	// the render. Document generation failure aborts the whole export.
	ErrRenderFailed = errors.New("document generation failed")

	// ErrExportInProgress indicates an export is already running.
	ErrExportInProgress = errors.New("export in progress")
)
