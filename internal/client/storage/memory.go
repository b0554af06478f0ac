package storage

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/chatvault/internal/common"
)

// MemoryStore is a map-backed Store used by tests and as a scratch store.
// Values are copied on the way in and out so callers cannot alias the
// internal state.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(key, value)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Apply(ctx context.Context, batch *Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range batch.ops {
		if op.delete {
			delete(s.data, op.key)
			continue
		}
		s.put(op.key, op.value)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// put stores a copy of value; the caller must hold the write lock.
func (s *MemoryStore) put(key string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
}
