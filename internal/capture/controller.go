// Package capture runs the clipboard capture pipeline: it drains the
// clipboard source, classifies each capture, enriches links, checks the
// store for duplicates, and inserts new items. Captures are processed
// one at a time by a single goroutine, which closes the dedup
// check-then-insert race window; one bad capture never stops the loop.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/P-1000/slate/internal/classify"
	"github.com/P-1000/slate/internal/clipboard"
	"github.com/P-1000/slate/internal/database"
	"github.com/P-1000/slate/internal/preview"
	"github.com/P-1000/slate/internal/util"
)

// Event notifies the presentation layer of pipeline outcomes. Item is
// set for a newly stored capture; Err is set when a capture's pipeline
// failed.
type Event struct {
	Item *database.ClipboardItem
	Err  error
}

// Controller orchestrates the capture pipeline.
type Controller struct {
	source   clipboard.Source
	store    database.Store
	enricher *preview.Enricher
	maxSize  int

	events  chan Event
	started bool

	// lastTS makes assigned timestamps strictly increasing even when
	// two captures land in the same millisecond.
	lastTS int64
}

func NewController(source clipboard.Source, store database.Store, enricher *preview.Enricher, maxSize int) *Controller {
	return &Controller{
		source:   source,
		store:    store,
		enricher: enricher,
		maxSize:  maxSize,
		events:   make(chan Event, 100),
	}
}

// Start launches the pipeline goroutine. It returns an error if called
// twice; the goroutine exits when ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	if c.started {
		return fmt.Errorf("capture controller already started")
	}
	c.started = true

	go c.run(ctx)

	slog.Info("capture pipeline started", "source", c.source.Name())
	return nil
}

// Events returns the notification channel. Events are dropped rather
// than blocking the pipeline when no consumer keeps up.
func (c *Controller) Events() <-chan Event {
	return c.events
}

func (c *Controller) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw := <-c.source.Changes():
			c.handle(ctx, raw)
		}
	}
}

// handle isolates one capture's pipeline: errors are logged and
// reported, never propagated, so the next capture is processed
// independently.
func (c *Controller) handle(ctx context.Context, raw clipboard.Capture) {
	if err := c.process(ctx, raw); err != nil {
		slog.Error("capture pipeline failed", "kind", raw.Kind, "error", err)
		c.emit(Event{Err: err})
	}
}

func (c *Controller) process(ctx context.Context, raw clipboard.Capture) error {
	if c.maxSize > 0 && raw.Size() > c.maxSize {
		slog.Debug("capture exceeds size limit, skipped",
			"size", raw.Size(), "max", c.maxSize)
		return nil
	}

	res, ok := classify.Classify(raw)
	if !ok {
		return nil
	}

	var meta *database.Metadata
	if res.Type == database.TypeLink {
		meta = c.enricher.Enrich(ctx, res.URL)
	}

	existing, err := c.store.FindByContent(ctx, res.Content)
	if err != nil {
		return fmt.Errorf("dedup check failed: %w", err)
	}
	if existing != nil {
		// Duplicate capture: drop it and keep the stored item's
		// original timestamp.
		slog.Debug("duplicate capture dropped", "id", existing.ItemID)
		return nil
	}

	item := &database.ClipboardItem{
		ItemID:    uuid.NewString(),
		Type:      res.Type,
		Content:   res.Content,
		Timestamp: c.nextTimestamp(),
		Size:      raw.Size(),
		Hash:      util.HashContent(res.Content),
		Metadata:  meta,
	}

	if err := c.store.Insert(ctx, item); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}

	slog.Info("clipboard item captured", "id", item.ItemID, "type", item.Type, "size", item.Size)
	c.emit(Event{Item: item})
	return nil
}

func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		slog.Warn("event channel full, notification dropped")
	}
}

func (c *Controller) nextTimestamp() int64 {
	ts := time.Now().UnixMilli()
	if ts <= c.lastTS {
		ts = c.lastTS + 1
	}
	c.lastTS = ts
	return ts
}
