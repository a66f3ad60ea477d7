// Package gateway is the command surface the presentation layer calls.
// Every handler validates its argument, delegates to the store or the
// enricher, and returns either a plain result or a typed error; raw
// low-level failures never cross this boundary.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/P-1000/slate/internal/classify"
	"github.com/P-1000/slate/internal/clipboard"
	"github.com/P-1000/slate/internal/database"
	"github.com/P-1000/slate/internal/preview"
)

// ErrValidation marks a missing or malformed command argument, rejected
// before the store is touched.
var ErrValidation = errors.New("invalid argument")

// CopyResult is the uniform outcome of a copy command. It carries a
// failure as data instead of an error so the caller never has to handle
// a throw from this path.
type CopyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Gateway exposes the clipboard-history operations.
type Gateway struct {
	store    database.Store
	enricher *preview.Enricher
	source   clipboard.Source
	hide     func()
}

func New(store database.Store, enricher *preview.Enricher, source clipboard.Source) *Gateway {
	return &Gateway{store: store, enricher: enricher, source: source}
}

// SetHideFunc registers the presentation layer's hide hook, invoked
// after a successful copy so the popup disappears without a round trip.
func (g *Gateway) SetHideFunc(hide func()) {
	g.hide = hide
}

// GetAll returns the full history, pinned items first, newest first.
// Read failures degrade to an empty slice.
func (g *Gateway) GetAll(ctx context.Context) []*database.ClipboardItem {
	items, err := g.store.ListAll(ctx)
	if err != nil {
		slog.Error("failed to list history", "error", err)
		return []*database.ClipboardItem{}
	}
	return items
}

// GetPinned returns pinned items, newest first. Read failures degrade to
// an empty slice.
func (g *Gateway) GetPinned(ctx context.Context) []*database.ClipboardItem {
	items, err := g.store.ListPinned(ctx)
	if err != nil {
		slog.Error("failed to list pinned items", "error", err)
		return []*database.ClipboardItem{}
	}
	return items
}

// Search returns items whose content contains query. An empty query
// returns the full history. Read failures degrade to an empty slice.
func (g *Gateway) Search(ctx context.Context, query string) []*database.ClipboardItem {
	if query == "" {
		return g.GetAll(ctx)
	}
	items, err := g.store.Search(ctx, query)
	if err != nil {
		slog.Error("failed to search history", "error", err)
		return []*database.ClipboardItem{}
	}
	return items
}

// Delete removes an item and reports whether a row was removed. A
// missing id yields false, not an error.
func (g *Gateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := requireArg("id", id); err != nil {
		return false, err
	}
	return g.store.Remove(ctx, id)
}

// TogglePin flips an item's pin flag and returns the updated item so the
// caller can refresh without a second read.
func (g *Gateway) TogglePin(ctx context.Context, id string) (*database.ClipboardItem, error) {
	if err := requireArg("id", id); err != nil {
		return nil, err
	}
	return g.store.TogglePin(ctx, id)
}

// SetPinned sets an item's pin flag to an explicit value.
func (g *Gateway) SetPinned(ctx context.Context, id string, pinned bool) (*database.ClipboardItem, error) {
	if err := requireArg("id", id); err != nil {
		return nil, err
	}
	return g.store.SetPinned(ctx, id, pinned)
}

// CopyToClipboard writes content back to the OS clipboard and then
// signals the presentation layer to hide. Image data URIs are decoded
// and written as image data.
func (g *Gateway) CopyToClipboard(_ context.Context, content string) CopyResult {
	if content == "" {
		return CopyResult{Error: "no content provided"}
	}

	var err error
	if data, ok := classify.DecodeImage(content); ok {
		err = g.source.WriteImage(data)
	} else {
		err = g.source.WriteText(content)
	}
	if err != nil {
		slog.Error("failed to write clipboard", "error", err)
		return CopyResult{Error: err.Error()}
	}

	if g.hide != nil {
		g.hide()
	}
	return CopyResult{Success: true}
}

// GetLinkPreview fetches metadata for a URL on demand. Returns nil for
// an invalid URL; fetch failures yield placeholder metadata.
func (g *Gateway) GetLinkPreview(ctx context.Context, rawURL string) *database.Metadata {
	u := strings.TrimSpace(rawURL)
	if !classify.IsHTTPURL(u) {
		return nil
	}
	return g.enricher.Enrich(ctx, u)
}

// Clear removes the entire history.
func (g *Gateway) Clear(ctx context.Context) error {
	return g.store.Clear(ctx)
}

func requireArg(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	return nil
}
