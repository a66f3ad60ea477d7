package preview

import (
	"context"
	"log/slog"
	"time"

	"github.com/P-1000/slate/internal/database"
)

// PlaceholderError is the stable error text stored when a preview could
// not be fetched, so the UI always has a metadata shape to render.
const PlaceholderError = "Preview unavailable"

// DefaultTimeout bounds a single enrichment fetch.
const DefaultTimeout = 3 * time.Second

// Enricher fetches link metadata with a bounded timeout. Failures and
// timeouts degrade to placeholder metadata; Enrich never reports an
// error, and never takes longer than the timeout plus scheduling slack.
type Enricher struct {
	fetcher Fetcher
	timeout time.Duration
}

func NewEnricher(fetcher Fetcher, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Enricher{fetcher: fetcher, timeout: timeout}
}

// Enrich returns fetched metadata for url, or the placeholder on any
// failure. The fetch runs in its own goroutine so a fetcher that ignores
// cancellation still cannot block the caller past the timeout.
func (e *Enricher) Enrich(ctx context.Context, url string) *database.Metadata {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		meta *database.Metadata
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		meta, err := e.fetcher.Fetch(ctx, url)
		ch <- result{meta: meta, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil || r.meta == nil {
			slog.Debug("link preview failed", "url", url, "error", r.err)
			return placeholder(url)
		}
		return r.meta
	case <-ctx.Done():
		slog.Debug("link preview timed out", "url", url)
		return placeholder(url)
	}
}

func placeholder(url string) *database.Metadata {
	return &database.Metadata{URL: url, Error: PlaceholderError}
}
