package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/career-recommender/internal/types"
)

// sweepInterval bounds how often Save scans for expired sessions.
const sweepInterval = time.Minute

type memoryEntry struct {
	conv      types.ConversationContext
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when no Redis URL is configured.
// Expired entries are dropped on Load and swept periodically on Save.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*types.ConversationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, sessionID)
		return nil, nil
	}
	conv := types.ConversationContext{
		Skills:    append([]string(nil), e.conv.Skills...),
		Interests: append([]string(nil), e.conv.Interests...),
	}
	return &conv, nil
}

// Save implements Store. A non-positive ttl uses DefaultTTL.
func (s *MemoryStore) Save(_ context.Context, sessionID string, conv *types.ConversationContext, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}

	s.entries[sessionID] = memoryEntry{
		conv: types.ConversationContext{
			Skills:    append([]string(nil), conv.Skills...),
			Interests: append([]string(nil), conv.Interests...),
		},
		expiresAt: now.Add(ttl),
	}
	return nil
}

// sweep deletes every expired entry. The caller holds s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.lastSweep = now
}
