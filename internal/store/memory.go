package store

import (
	"context"
	"sync"

	"github.com/serroba/zag-shortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[shortener.Code]shortener.Mapping
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[shortener.Code]shortener.Mapping),
	}
}

func (m *MemoryStore) Save(_ context.Context, mapping *shortener.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.mappings[mapping.Code]; ok {
		return shortener.ErrCodeTaken
	}

	m.mappings[mapping.Code] = *mapping

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.mappings[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &mapping, nil
}

// Len returns the number of stored mappings.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.mappings)
}

// State always reports StateConnected; there is nothing to connect to.
func (m *MemoryStore) State() State {
	return StateConnected
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
