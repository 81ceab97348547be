package sheets

import (
	"context"

	"bilancio/internal/store"
)

// SnapshotExporter mirrors a budget snapshot to an external destination.
// Exports are full rewrites, so repeating one is always safe.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, snap store.Snapshot) error
}
