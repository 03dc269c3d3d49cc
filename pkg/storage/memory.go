package storage

import (
	"context"
	"slices"
	"sync"
)

type recordKey struct {
	browserID string
	key       string
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, browserID, key string) ([]byte, error) {
	if err := checkBrowserID(browserID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[recordKey{browserID, key}]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *MemoryStore) Set(_ context.Context, browserID, key string, value []byte) error {
	if err := checkBrowserID(browserID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{browserID, key}] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, browserID, key string) error {
	if err := checkBrowserID(browserID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, recordKey{browserID, key})
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
