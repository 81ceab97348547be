package storage

import (
	"context"
	"sync"

	"bilancio/internal/store"
)

// MemoryRepository is a volatile blob store for tests and runs that do
// not need durability.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string]string
}

var _ store.BlobStore = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]string)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *MemoryRepository) Put(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}
