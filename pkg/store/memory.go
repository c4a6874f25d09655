package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/openmodel/pkg/identity"
)

// MemoryStore keeps documents in process memory.
// Useful for testing or when persistence is not wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[identity.ID][]byte
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[identity.ID][]byte)}
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(ctx context.Context, id identity.ID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[id]
	if !ok {
		return nil, notFound(id)
	}
	return slices.Clone(data), nil
}

// Put stores a copy of data.
func (s *MemoryStore) Put(ctx context.Context, id identity.ID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = slices.Clone(data)
	return nil
}

// Delete removes id.
func (s *MemoryStore) Delete(ctx context.Context, id identity.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return notFound(id)
	}
	delete(s.data, id)
	return nil
}

// List returns the stored IDs in ascending order.
func (s *MemoryStore) List(ctx context.Context) ([]identity.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.SortedFunc(maps.Keys(s.data), identity.Compare), nil
}

// Close does nothing.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
