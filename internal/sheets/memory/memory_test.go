package memory

import (
	"context"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/store"
)

func TestExporterRecordsLastSnapshot(t *testing.T) {
	e := New()

	if _, n := e.Last(); n != 0 {
		t.Fatalf("fresh exporter should have no exports, got %d", n)
	}

	first := store.Snapshot{Revision: 1, Document: core.SeedDocument()}
	second := store.Snapshot{Revision: 2, Document: core.SeedDocument()}

	if err := e.ExportSnapshot(context.Background(), first); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := e.ExportSnapshot(context.Background(), second); err != nil {
		t.Fatalf("export: %v", err)
	}

	last, n := e.Last()
	if n != 2 {
		t.Errorf("exports = %d, want 2", n)
	}
	if last.Revision != 2 {
		t.Errorf("last revision = %d, want 2", last.Revision)
	}
}
