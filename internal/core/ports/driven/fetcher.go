package driven

import "context"

// FetchResult is the outcome of one attachment retrieval.
// Exhausting all attempts is a result, not an error: the caller decides
// how to represent an unretrieved file in the archive.
type FetchResult struct {
	// Retrieved indicates the attachment was fetched successfully.
	Retrieved bool

	// Data is the attachment content. Nil when Retrieved is false.
	Data []byte

	// Attempts is the number of attempts issued.
	Attempts int
}

// AttachmentFetcher retrieves a single remote file as binary content.
// Implementations apply bounded retry with backoff and isolate network
// failure per file: Fetch returns an error only for programming misuse
// (empty URL, cancelled context), never for retrieval failure.
type AttachmentFetcher interface {
	// Fetch retrieves the file at url. The name is used for logging only.
	Fetch(ctx context.Context, url, name string) (FetchResult, error)
}
