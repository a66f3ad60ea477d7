// Package preview enriches link items with page metadata. The Fetcher
// interface is the external fetch capability; Enricher wraps it with the
// timeout and placeholder policy so enrichment can never block or fail
// item persistence.
package preview

import (
	"context"

	"github.com/P-1000/slate/internal/database"
)

// Fetcher retrieves page metadata for a URL. Implementations must honor
// context cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*database.Metadata, error)
}
