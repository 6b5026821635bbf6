package storage

import (
	"context"
	"slices"
	"sync"
)

const defaultMemoryRetention = 1000

// MemoryStorage keeps the most recent solves in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu        sync.RWMutex
	entries   []Entry
	nextID    int64
	retention int
}

// NewMemoryStorage initialises an empty store that keeps the latest 1000 solves.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:    1,
		retention: defaultMemoryRetention,
	}
}

// Record assigns the next ID and stores the entry, evicting the oldest entry
// once the retention limit is reached.
func (s *MemoryStorage) Record(ctx context.Context, entry Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.retention; over > 0 {
		s.entries = slices.Delete(s.entries, 0, over)
	}
	return entry, nil
}

// Get returns the entry with the given ID.
func (s *MemoryStorage) Get(ctx context.Context, id int64) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, found := slices.BinarySearchFunc(s.entries, id, func(e Entry, target int64) int {
		switch {
		case e.ID < target:
			return -1
		case e.ID > target:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return Entry{}, ErrNotFound
	}
	return s.entries[idx], nil
}

// List returns a copy of the newest entries.
func (s *MemoryStorage) List(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}
