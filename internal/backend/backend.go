// Package backend selects and constructs the blob store implementation
// for the configured persistence backend.
package backend

import (
	"fmt"

	"bilancio/internal/config"
	"bilancio/internal/storage"
	"bilancio/internal/store"
)

// Type names a persistence backend.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries the constructed blob store and its cleanup.
type Result struct {
	Blobs   store.BlobStore
	Cleanup CleanupFunc
}

// Create builds the blob store named by cfg.DataBackend.
func Create(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		return &Result{Blobs: repo, Cleanup: repo.Close}, nil
	case MemoryBackend:
		return &Result{Blobs: storage.NewMemoryRepository()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
