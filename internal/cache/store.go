// Package cache keeps computed quality results for a short window so that
// repeated dashboard loads do not refetch the whole contract table.
//
// Entries are served fresh until they are older than the stale window, served
// while being refreshed in the background until the retention window, and
// dropped after that.
package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is a cached payload together with the time it was fetched.
type Entry struct {
	Value     []byte
	FetchedAt time.Time
}

// Store persists cache entries. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry for key. ok is false when the key is absent or expired.
	Get(ctx context.Context, key string) (e Entry, ok bool, err error)
	// Set stores e under key, expiring it after ttl.
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

type memoryItem struct {
	entry    Entry
	expireAt time.Time
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryStore returns an empty MemoryStore. now may be nil (time.Now).
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{items: make(map[string]memoryItem), now: now}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false, nil
	}
	if !s.now().Before(it.expireAt) {
		s.mu.Lock()
		if cur, still := s.items[key]; still && cur.expireAt.Equal(it.expireAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return Entry{}, false, nil
	}
	return it.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry, ttl time.Duration) error {
	s.mu.Lock()
	s.items[key] = memoryItem{entry: e, expireAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored (possibly expired) entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
