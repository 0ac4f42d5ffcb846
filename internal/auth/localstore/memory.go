package localstore

import (
	"context"
	"sync"
)

type memoryStore struct {
	items map[string][]byte
	mutex sync.RWMutex
}

// NewMemory builds an in-memory store. State is lost on process exit, which
// matches an incognito browser session.
func NewMemory() Store {
	return &memoryStore{
		items: make(map[string][]byte),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mutex.Lock()
	s.items[key] = stored
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	delete(s.items, key)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	s.items = make(map[string][]byte)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Close(_ context.Context) error {
	return nil
}
