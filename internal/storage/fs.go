package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const snapshotFile = "store.json"

// FSStore keeps every slot in one JSON document under base. Each batch
// rewrites the document through a temp file and a rename, so a crash leaves
// either the old or the new document on disk.
type FSStore struct {
	base string

	mu   sync.RWMutex
	data map[string][]byte
}

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	s := &FSStore{base: base, data: map[string][]byte{}}
	raw, err := os.ReadFile(s.path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FSStore) path() string { return filepath.Join(s.base, snapshotFile) }

func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(v), nil
}

func (s *FSStore) PutMany(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string][]byte, len(s.data)+len(entries))
	for k, v := range s.data {
		next[k] = v
	}
	for k, v := range entries {
		next[k] = clone(v)
	}
	if err := s.flush(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *FSStore) DeleteMany(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		next[k] = v
	}
	for _, k := range keys {
		delete(next, k)
	}
	if err := s.flush(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *FSStore) flush(data map[string][]byte) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(s.base, snapshotFile+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path())
}

func (s *FSStore) Close() error { return nil }
