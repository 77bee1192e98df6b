package store

import (
	"sort"
	"sync"

	"github.com/varrock/clanhall-api/internal/models"
)

// FeedStore maintains the derived activity feed, newest first. Steady-state
// maintenance is prepend-only: a new entry always carries the largest
// timestamp, so descending order is preserved without re-sorting.
type FeedStore struct {
	mu      sync.RWMutex
	entries []models.FeedEntry
}

// NewFeedStore constructs an empty feed.
func NewFeedStore() *FeedStore {
	return &FeedStore{}
}

// Prepend inserts the entry at position 0.
func (s *FeedStore) Prepend(entry models.FeedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]models.FeedEntry{entry}, s.entries...)
}

// Rebuild replaces the feed with a full derivation from the given entries,
// sorted descending by timestamp. Used at seed time.
func (s *FeedStore) Rebuild(entries []models.FeedEntry) {
	sorted := make([]models.FeedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = sorted
}

// List returns a copy of the feed, newest first.
func (s *FeedStore) List() []models.FeedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FeedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
