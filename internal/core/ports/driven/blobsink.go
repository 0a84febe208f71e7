package driven

import "github.com/fernlea-labs/attest-cli/internal/core/domain"

// BlobSink delivers a produced artifact to its destination. The browser
// rendition triggers a save-as; the CLI rendition writes to the output
// directory. Implementations must release any transient resource (temp
// file, object handle) on all paths, including failure.
type BlobSink interface {
	Save(artifact domain.Artifact) error
}
