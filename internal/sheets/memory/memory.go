// Package memory provides an in-memory snapshot exporter for tests and
// for running the worker without Google credentials.
package memory

import (
	"context"
	"sync"

	"bilancio/internal/sheets"
	"bilancio/internal/store"
)

type Exporter struct {
	mu      sync.Mutex
	last    store.Snapshot
	exports int
}

var _ sheets.SnapshotExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportSnapshot(_ context.Context, snap store.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = snap
	e.exports++
	return nil
}

// Last returns the most recently exported snapshot and how many exports
// have been recorded.
func (e *Exporter) Last() (store.Snapshot, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last, e.exports
}
