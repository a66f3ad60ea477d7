package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a map-backed Store. It exists so the capture pipeline
// and the gateway can be exercised without a database file.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*ClipboardItem
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*ClipboardItem)}
}

func (s *MemoryStore) FindByContent(_ context.Context, content string) (*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Content == content {
			clone := *item
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Insert(_ context.Context, item *ClipboardItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *item
	clone.CreatedAt = time.Now()
	s.items[item.ItemID] = &clone
	return nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(*ClipboardItem) bool { return true }), nil
}

func (s *MemoryStore) ListPinned(_ context.Context) ([]*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(it *ClipboardItem) bool { return it.Pinned }), nil
}

func (s *MemoryStore) Search(_ context.Context, query string) ([]*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(it *ClipboardItem) bool {
		return strings.Contains(it.Content, query)
	}), nil
}

func (s *MemoryStore) SetPinned(_ context.Context, id string, pinned bool) (*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Pinned = pinned
	clone := *item
	return &clone, nil
}

func (s *MemoryStore) TogglePin(_ context.Context, id string) (*ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Pinned = !item.Pinned
	clone := *item
	return &clone, nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *MemoryStore) Cleanup(_ context.Context, maxDays, maxItems int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -maxDays).UnixMilli()
	for id, item := range s.items {
		if !item.Pinned && item.Timestamp < cutoff {
			delete(s.items, id)
		}
	}

	unpinned := s.sorted(func(it *ClipboardItem) bool { return !it.Pinned })
	for i := maxItems; i < len(unpinned); i++ {
		delete(s.items, unpinned[i].ItemID)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*ClipboardItem)
	return nil
}

func (s *MemoryStore) Compact(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// sorted returns clones of matching items, pinned first, then newest
// first. Caller must hold the lock.
func (s *MemoryStore) sorted(match func(*ClipboardItem) bool) []*ClipboardItem {
	out := make([]*ClipboardItem, 0, len(s.items))
	for _, item := range s.items {
		if match(item) {
			clone := *item
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
