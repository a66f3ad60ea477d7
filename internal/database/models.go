package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ItemType is the semantic type of a clipboard item, fixed at creation.
type ItemType string

const (
	TypeText  ItemType = "text"
	TypeImage ItemType = "image"
	TypeLink  ItemType = "link"
)

// Metadata holds the link preview for link items: OpenGraph fields on
// success, or {URL, Error} when the fetch failed so consumers never have
// to branch on missing metadata.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Value serializes metadata to JSON for storage in a text column.
func (m Metadata) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(data), nil
}

// Scan deserializes metadata from its stored JSON form.
func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	default:
		return fmt.Errorf("cannot scan %T into Metadata", src)
	}
}

type ClipboardItem struct {
	bun.BaseModel `bun:"table:clipboard_items"`

	// RowID is the storage-engine key; ItemID is the item's public
	// identity and stays stable regardless of the backing engine.
	RowID  int64  `bun:"id,pk,autoincrement" json:"-"`
	ItemID string `bun:"item_id,unique,notnull" json:"id"`

	Type    ItemType `bun:"type,notnull" json:"type"`
	Content string   `bun:"content,notnull" json:"content"`
	// Timestamp is capture time in milliseconds since epoch, the
	// primary sort key within each pin group.
	Timestamp int64     `bun:"timestamp,notnull" json:"timestamp"`
	Pinned    bool      `bun:"pinned,notnull,default:false" json:"pinned"`
	Size      int       `bun:"size,notnull" json:"size"`
	Hash      string    `bun:"hash,unique,notnull" json:"-"`
	Metadata  *Metadata `bun:"metadata,type:text,nullzero" json:"metadata,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`
}
