// Package domain defines the core business entities for Attest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ComplianceReport: The fully-loaded report aggregate being exported
//   - Reference / SupportingDocument / OnfidoResult: Attachment-bearing records
//   - ExportRecord: The recorded outcome of one export invocation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
