package repository

import (
	"context"
	"sync"
	"time"

	"github.com/yashrajoria/sneakershop/models"
)

// SessionCartStore maps an opaque session identifier to its anonymous cart lines.
// Load returns an empty slice for unknown sessions. Implementations do not
// serialize read-modify-write sequences: concurrent writers to one session race
// and the last Save wins.
type SessionCartStore interface {
	Load(ctx context.Context, sessionID string) ([]models.SessionCartItem, error)
	Save(ctx context.Context, sessionID string, items []models.SessionCartItem) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	items     []models.SessionCartItem
	expiresAt time.Time
}

// MemorySessionCartStore keeps carts in process memory. Contents are lost on restart.
type MemorySessionCartStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionCartStore creates an in-process store. A positive ttl expires
// entries after that long without a Load or Save; zero keeps them forever.
func NewMemorySessionCartStore(ttl time.Duration) *MemorySessionCartStore {
	return &MemorySessionCartStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemorySessionCartStore) Load(_ context.Context, sessionID string) ([]models.SessionCartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return []models.SessionCartItem{}, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return []models.SessionCartItem{}, nil
	}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
		s.entries[sessionID] = entry
	}
	return cloneItems(entry.items), nil
}

func (s *MemorySessionCartStore) Save(_ context.Context, sessionID string, items []models.SessionCartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{items: cloneItems(items)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[sessionID] = entry
	return nil
}

func (s *MemorySessionCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func cloneItems(items []models.SessionCartItem) []models.SessionCartItem {
	out := make([]models.SessionCartItem, len(items))
	copy(out, items)
	return out
}
