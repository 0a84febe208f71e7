package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// batchConcurrency bounds the fan-out of a batch URL lookup.
const batchConcurrency = 8

// URLDirectory resolves document ids to downloadable URLs through the
// DocumentURLResolver, caching results for the lifetime of one export
// invocation. The cache is scoped, not global: cross-request state was a
// deliberate removal. At most one entry per id, no eviction; report
// sessions are short-lived and bounded in document count.
type URLDirectory struct {
	resolver driven.DocumentURLResolver

	mu    sync.Mutex
	cache map[string]string
}

// NewURLDirectory creates a directory over the given resolver.
// The resolver may be nil, in which case every lookup resolves to "".
func NewURLDirectory(resolver driven.DocumentURLResolver) *URLDirectory {
	return &URLDirectory{
		resolver: resolver,
		cache:    make(map[string]string),
	}
}

// Resolve returns the URL for one document id. A failed or not-found
// lookup resolves to the empty string, which downstream code treats as
// skip-not-error. Only successful lookups are cached.
func (d *URLDirectory) Resolve(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}

	d.mu.Lock()
	url, ok := d.cache[id]
	d.mu.Unlock()
	if ok {
		return url
	}

	if d.resolver == nil {
		return ""
	}

	url, err := d.resolver.Resolve(ctx, id)
	if err != nil {
		logger.Warn("URL lookup failed for document %s: %v", id, err)
		return ""
	}
	if url == "" {
		return ""
	}

	d.mu.Lock()
	d.cache[id] = url
	d.mu.Unlock()
	return url
}

// ResolveBatch looks up many document ids concurrently. Results are
// associated by id, never by completion order; ids that fail or resolve
// empty are absent from the returned map. The only error is context
// cancellation.
func (d *URLDirectory) ResolveBatch(ctx context.Context, ids []string) (map[string]string, error) {
	urls := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return urls, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if url := d.Resolve(ctx, id); url != "" {
				mu.Lock()
				urls[id] = url
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// HydrateReport fills in missing file URLs on a copy of the report via
// batch lookup. The input report is never mutated. Documents that still
// resolve to no URL keep an empty FileURL and are skipped downstream.
func (d *URLDirectory) HydrateReport(ctx context.Context, report *domain.ComplianceReport) (*domain.ComplianceReport, error) {
	hydrated := *report
	data := &hydrated.Data

	var ids []string
	if data.CV.URL == "" && data.CV.ID != "" {
		ids = append(ids, data.CV.ID)
	}
	for _, doc := range data.SupportingDocuments {
		if doc.FileURL == "" && doc.ID != "" {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		return &hydrated, nil
	}

	urls, err := d.ResolveBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	if data.CV.URL == "" {
		data.CV.URL = urls[data.CV.ID]
	}
	docs := make([]domain.SupportingDocument, len(data.SupportingDocuments))
	copy(docs, data.SupportingDocuments)
	for i := range docs {
		if docs[i].FileURL == "" {
			docs[i].FileURL = urls[docs[i].ID]
		}
	}
	data.SupportingDocuments = docs

	logger.Debug("Hydrated %d of %d document URLs", len(urls), len(ids))
	return &hydrated, nil
}
