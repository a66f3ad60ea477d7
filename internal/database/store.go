// Package database owns the persistent clipboard history. The Store
// interface is the single source of truth for clipboard items; the
// capture pipeline and the command gateway only ever go through it, so
// the backing engine stays swappable (embedded SQLite in production, an
// in-memory map in tests).
package database

import "context"

// Store is the clipboard history persistence contract.
type Store interface {
	// FindByContent returns the item whose content exactly matches, or
	// nil if none exists. This is the dedup check.
	FindByContent(ctx context.Context, content string) (*ClipboardItem, error)

	// Insert durably writes a new item. Fails with ErrStorage if the
	// persistence layer rejects the write.
	Insert(ctx context.Context, item *ClipboardItem) error

	// ListAll returns every item, pinned items first, each group in
	// descending timestamp order. An empty history yields an empty
	// slice, not an error.
	ListAll(ctx context.Context) ([]*ClipboardItem, error)

	// ListPinned returns pinned items in descending timestamp order.
	ListPinned(ctx context.Context) ([]*ClipboardItem, error)

	// Search returns items whose content contains the query substring,
	// in the same order as ListAll.
	Search(ctx context.Context, query string) ([]*ClipboardItem, error)

	// SetPinned sets an item's pin flag and returns the updated item.
	// Fails with ErrNotFound if the id does not exist.
	SetPinned(ctx context.Context, id string, pinned bool) (*ClipboardItem, error)

	// TogglePin flips an item's pin flag and returns the updated item.
	// Fails with ErrNotFound if the id does not exist.
	TogglePin(ctx context.Context, id string) (*ClipboardItem, error)

	// Remove deletes an item and reports whether a row was actually
	// removed. A missing id is not an error.
	Remove(ctx context.Context, id string) (bool, error)

	// Cleanup deletes unpinned items older than maxDays and trims the
	// unpinned set down to maxItems, keeping the most recent.
	Cleanup(ctx context.Context, maxDays, maxItems int) error

	// Clear removes every item.
	Clear(ctx context.Context) error

	// Compact reclaims storage space. Best-effort maintenance; callers
	// log failures rather than surfacing them.
	Compact(ctx context.Context) error

	Close() error
}
