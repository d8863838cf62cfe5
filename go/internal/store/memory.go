package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory Store. It backs unit tests
// and single-node deployments; documents are kept as marshaled JSON so
// callers always get their own copy back.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // collection -> key -> document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, key string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][key]
	if !ok {
		return fmt.Errorf("get %s/%s: %w", collection, key, ErrNotFound)
	}
	if err := json.Unmarshal(doc, dest); err != nil {
		return fmt.Errorf("get %s/%s: unmarshal: %w", collection, key, err)
	}
	return nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("set %s/%s: marshal: %w", collection, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string][]byte)
	}
	s.data[collection][key] = raw
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[collection], key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]json.RawMessage, 0, len(s.data[collection]))
	for _, raw := range s.data[collection] {
		docs = append(docs, json.RawMessage(append([]byte(nil), raw...)))
	}
	return docs, nil
}
