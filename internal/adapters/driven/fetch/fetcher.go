// Package fetch implements the AttachmentFetcher port over HTTP.
//
// Retrieval is best-effort with bounded retry: a non-success status or
// transport error counts as a failed attempt, attempts are separated by
// a linearly growing backoff, and exhausting all attempts yields an
// explicit "not retrieved" result rather than an error. Callers decide
// how an unretrieved file is represented.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

const (
	// DefaultMaxAttempts is the retry ceiling per file.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the backoff unit; the wait before attempt n+1
	// is n * DefaultBaseDelay.
	DefaultBaseDelay = time.Second

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// defaultRate is the proactive throttle on outgoing fetches.
	defaultRate = 10 // requests per second
)

// Ensure Fetcher implements the interface.
var _ driven.AttachmentFetcher = (*Fetcher)(nil)

// Fetcher retrieves remote attachments over HTTP.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
	baseDelay   time.Duration
	limiter     *rate.Limiter

	// sleep separates attempts; replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxAttempts overrides the retry ceiling.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the backoff unit.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.baseDelay = d
		}
	}
}

// WithClient overrides the HTTP client. Useful for testing.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithRateLimit overrides the proactive throttle, in requests per second.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New creates an HTTP fetcher with the default retry policy.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultTimeout},
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		limiter:     rate.NewLimiter(rate.Limit(defaultRate), 1),
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the file at url, retrying up to the configured ceiling.
// Exhaustion returns FetchResult{Retrieved: false} with a nil error; the
// only errors are an empty URL and context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, url, name string) (driven.FetchResult, error) {
	if url == "" {
		return driven.FetchResult{}, fmt.Errorf("%w: empty attachment URL", domain.ErrInvalidInput)
	}

	var attempts int
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		attempts = attempt

		if err := f.limiter.Wait(ctx); err != nil {
			return driven.FetchResult{Attempts: attempts}, err
		}

		logger.Debug("Fetching %s (attempt %d/%d)", name, attempt, f.maxAttempts)
		data, ok := f.tryOnce(ctx, url, name)
		if ok {
			logger.Debug("Successfully fetched %s (%d bytes)", name, len(data))
			return driven.FetchResult{Retrieved: true, Data: data, Attempts: attempts}, nil
		}

		if attempt < f.maxAttempts {
			if err := f.sleep(ctx, time.Duration(attempt)*f.baseDelay); err != nil {
				return driven.FetchResult{Attempts: attempts}, err
			}
		}
	}

	logger.Warn("Failed to fetch %s after %d attempts", name, attempts)
	return driven.FetchResult{Retrieved: false, Attempts: attempts}, nil
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// tryOnce issues a single request. Any status outside 2xx is a failure
// for this attempt only.
func (f *Fetcher) tryOnce(ctx context.Context, url, name string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Warn("Invalid request for %s: %v", name, err)
		return nil, false
	}
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Debug("Fetch attempt failed for %s: %v", name, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debug("Fetch returned status %d for %s", resp.StatusCode, name)
		io.Copy(io.Discard, resp.Body)
		return nil, false
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Debug("Reading body failed for %s: %v", name, err)
		return nil, false
	}
	return data, true
}
