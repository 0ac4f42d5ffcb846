package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fileStore struct {
	path  string
	items map[string]json.RawMessage
	mutex sync.Mutex
}

// NewFile builds a file-backed store. This is the durable default: like browser
// local storage, it survives restarts, so a signed-in user is silently restored
// on the next run.
func NewFile(cfg Config) (Store, error) {
	path := ""
	if cfg.File != nil {
		path = cfg.File.Path
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, ".storefront", "local-store.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := &fileStore{
		path:  path,
		items: make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.items); err != nil {
		return fmt.Errorf("parse store file: %w", err)
	}
	return nil
}

// flush writes the whole map atomically via a temp file rename.
func (s *fileStore) flush() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	value, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *fileStore) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.items[key] = stored
	return s.flush()
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.items[key]; !ok {
		return nil
	}
	delete(s.items, key)
	return s.flush()
}

func (s *fileStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items = make(map[string]json.RawMessage)
	return s.flush()
}

func (s *fileStore) Close(_ context.Context) error {
	return nil
}
