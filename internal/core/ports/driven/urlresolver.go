package driven

import "context"

// DocumentURLResolver looks up the downloadable URL for a stored document.
// The storage provider behind it is mocked in this repository; real
// deployments would return signed URLs from a private bucket.
type DocumentURLResolver interface {
	// Resolve returns the URL for a document id. A document with no
	// retrievable file resolves to the empty string with a nil error;
	// downstream code treats that as skip, not failure.
	Resolve(ctx context.Context, id string) (string, error)
}
