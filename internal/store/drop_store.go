package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/varrock/clanhall-api/internal/models"
)

// NewDropParams carries the fields of a user-submitted drop.
type NewDropParams struct {
	PlayerName string
	ItemName   string
	Boss       string
	ImageURL   string
}

// DropStore holds logged drops in memory, newest first.
type DropStore struct {
	mu    sync.RWMutex
	drops []models.Drop
	now   func() time.Time
}

// NewDropStore constructs an empty drop store.
func NewDropStore() *DropStore {
	return &DropStore{now: time.Now}
}

// WithClock overrides the store clock. Intended for tests.
func (s *DropStore) WithClock(now func() time.Time) *DropStore {
	s.now = now
	return s
}

// Add creates a new drop with a fresh id and places it at the head of the
// list. Drops are immutable once stored.
func (s *DropStore) Add(params NewDropParams) models.Drop {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := models.Drop{
		ID:         uuid.NewString(),
		ItemName:   params.ItemName,
		PlayerName: params.PlayerName,
		Boss:       params.Boss,
		ImageURL:   params.ImageURL,
		CreatedAt:  s.now().UTC(),
	}

	s.drops = append([]models.Drop{drop}, s.drops...)
	return drop
}

// List returns a copy of the drops in display order (newest first).
func (s *DropStore) List() []models.Drop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Drop, len(s.drops))
	copy(out, s.drops)
	return out
}
