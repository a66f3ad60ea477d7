package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/P-1000/slate/internal/util"
)

// Repository is the embedded-SQLite Store implementation.
type Repository struct {
	db *bun.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	ctx := context.Background()

	if _, err := r.db.NewCreateTable().
		Model((*ClipboardItem)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create clipboard_items table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_clipboard_timestamp ON clipboard_items(timestamp DESC)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_clipboard_item_id ON clipboard_items(item_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_clipboard_hash ON clipboard_items(hash)",
		"CREATE INDEX IF NOT EXISTS idx_clipboard_pinned ON clipboard_items(pinned)",
	}

	for _, idx := range indexes {
		if _, err := r.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (r *Repository) FindByContent(ctx context.Context, content string) (*ClipboardItem, error) {
	var item ClipboardItem
	err := r.db.NewSelect().
		Model(&item).
		Where("hash = ?", util.HashContent(content)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up content: %v", ErrStorage, err)
	}
	return &item, nil
}

func (r *Repository) Insert(ctx context.Context, item *ClipboardItem) error {
	if item.Hash == "" {
		item.Hash = util.HashContent(item.Content)
	}
	item.CreatedAt = time.Now()

	if _, err := r.db.NewInsert().Model(item).Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to insert clipboard item: %v", ErrStorage, err)
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context) ([]*ClipboardItem, error) {
	items := make([]*ClipboardItem, 0)
	err := r.db.NewSelect().
		Model(&items).
		Order("pinned DESC", "timestamp DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list items: %v", ErrStorage, err)
	}
	return items, nil
}

func (r *Repository) ListPinned(ctx context.Context) ([]*ClipboardItem, error) {
	items := make([]*ClipboardItem, 0)
	err := r.db.NewSelect().
		Model(&items).
		Where("pinned").
		Order("timestamp DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list pinned items: %v", ErrStorage, err)
	}
	return items, nil
}

func (r *Repository) Search(ctx context.Context, query string) ([]*ClipboardItem, error) {
	items := make([]*ClipboardItem, 0)
	err := r.db.NewSelect().
		Model(&items).
		Where("content LIKE ?", "%"+query+"%").
		Order("pinned DESC", "timestamp DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search items: %v", ErrStorage, err)
	}
	return items, nil
}

func (r *Repository) SetPinned(ctx context.Context, id string, pinned bool) (*ClipboardItem, error) {
	res, err := r.db.NewUpdate().
		Model((*ClipboardItem)(nil)).
		Set("pinned = ?", pinned).
		Where("item_id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update pin: %v", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.getByItemID(ctx, id)
}

func (r *Repository) TogglePin(ctx context.Context, id string) (*ClipboardItem, error) {
	res, err := r.db.NewUpdate().
		Model((*ClipboardItem)(nil)).
		Set("pinned = NOT pinned").
		Where("item_id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to toggle pin: %v", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.getByItemID(ctx, id)
}

func (r *Repository) Remove(ctx context.Context, id string) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*ClipboardItem)(nil)).
		Where("item_id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete item: %v", ErrStorage, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repository) Cleanup(ctx context.Context, maxDays, maxItems int) error {
	cutoff := time.Now().AddDate(0, 0, -maxDays).UnixMilli()

	_, err := r.db.NewDelete().
		Model((*ClipboardItem)(nil)).
		Where("timestamp < ? AND pinned = FALSE", cutoff).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to delete old items: %v", ErrStorage, err)
	}

	// Trim the unpinned set down to the most recent maxItems.
	keep := r.db.NewSelect().
		Model((*ClipboardItem)(nil)).
		Column("id").
		Where("pinned = FALSE").
		Order("timestamp DESC").
		Limit(maxItems)

	_, err = r.db.NewDelete().
		Model((*ClipboardItem)(nil)).
		Where("pinned = FALSE").
		Where("id NOT IN (?)", keep).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to trim excess items: %v", ErrStorage, err)
	}

	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*ClipboardItem)(nil)).Where("1=1").Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to clear history: %v", ErrStorage, err)
	}
	return nil
}

func (r *Repository) Compact(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("%w: vacuum failed: %v", ErrStorage, err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) getByItemID(ctx context.Context, id string) (*ClipboardItem, error) {
	var item ClipboardItem
	err := r.db.NewSelect().
		Model(&item).
		Where("item_id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get item: %v", ErrStorage, err)
	}
	return &item, nil
}
