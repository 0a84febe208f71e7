// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AttachmentFetcher: Retrieves remote attachment bytes with retry
//   - Rasterizer: Converts a sanitised visual tree into a paginated document
//   - BlobSink: Delivers a produced blob under a filename
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentURLResolver: Signed-URL lookup. Without it, documents must
//     already carry direct URLs.
//   - ExportStore: Export history persistence. Without it, invocations are
//     not recorded.
//
// # Import Rules
//
//   - Can Import: domain package, golang.org/x/net/html (the visual-tree
//     representation shared with the rasterizer engine)
//   - Cannot Import: Any adapter package
package driven
