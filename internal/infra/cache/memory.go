package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and as a degraded-mode
// backend when no database is available. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns the stored payload for fingerprint.
func (s *MemoryStore) Get(_ context.Context, fingerprint string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.entries[fingerprint]
	return payload, ok
}

// Put stores payload, overwriting any previous entry (last write wins).
func (s *MemoryStore) Put(_ context.Context, fingerprint string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[fingerprint] = payload
}

// Len reports the number of entries (test helper).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
