// Package docurls implements the DocumentURLResolver port.
//
// Two implementations are provided: an HTTP resolver that asks the
// compliance platform's document endpoint for a download URL, and a
// static resolver backed by a fixed map for offline runs and tests.
package docurls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// DefaultTimeout is the per-lookup HTTP timeout.
const DefaultTimeout = 15 * time.Second

var (
	_ driven.DocumentURLResolver = (*HTTPResolver)(nil)
	_ driven.DocumentURLResolver = (StaticResolver)(nil)
)

// HTTPResolver resolves document ids against the platform's get-url
// endpoint: GET {base}/api/documents/get-url?id={id}.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a resolver against the given platform base URL.
func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// NewHTTPResolverWithClient creates a resolver with a custom HTTP client.
func NewHTTPResolverWithClient(baseURL string, client *http.Client) *HTTPResolver {
	r := NewHTTPResolver(baseURL)
	r.client = client
	return r
}

// Resolve looks up the download URL for a document id. A 404 means the
// document has no retrievable file and resolves to the empty string.
func (r *HTTPResolver) Resolve(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("%s/api/documents/get-url?id=%s", r.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving document %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.Debug("Document %s has no retrievable file", id)
		io.Copy(io.Discard, resp.Body)
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("resolving document %s: unexpected status %d", id, resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding get-url response for %s: %w", id, err)
	}
	return payload.URL, nil
}

// StaticResolver resolves document ids from a fixed map. Ids absent from
// the map resolve to the empty string.
type StaticResolver map[string]string

// Resolve returns the mapped URL for id, or "" when unmapped.
func (r StaticResolver) Resolve(_ context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	return r[id], nil
}
