package worker

import (
	"context"
	"encoding/json"
	"testing"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/sheets/memory"
	"bilancio/internal/storage"
	"bilancio/internal/store"
)

func seedBlob(t *testing.T, blobs store.BlobStore) core.Document {
	t.Helper()
	doc := core.SeedDocument()
	doc.Incomes = append(doc.Incomes, core.Income{
		ID:        "i1",
		Source:    "Salary",
		Amount:    core.Money{Cents: 300000},
		Frequency: core.Monthly,
		Date:      core.NewDate(2026, 1, 15),
	})
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := blobs.Put(context.Background(), store.DefaultDocumentKey, string(raw)); err != nil {
		t.Fatalf("put: %v", err)
	}
	return doc
}

func TestHandleUpdateMessageExports(t *testing.T) {
	blobs := storage.NewMemoryRepository()
	seedBlob(t, blobs)
	exporter := memory.New()
	w := NewExportWorker(blobs, exporter, "")

	msg := amqp.NewDocumentUpdatedMessage(store.DefaultDocumentKey, 5)
	if err := w.HandleUpdateMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	snap, n := exporter.Last()
	if n != 1 {
		t.Fatalf("exports = %d, want 1", n)
	}
	if snap.Revision != 5 {
		t.Errorf("revision = %d, want 5", snap.Revision)
	}
	if snap.Summary.TotalIncome.Cents != 300000 {
		t.Errorf("summary not recomputed, income = %d", snap.Summary.TotalIncome.Cents)
	}
}

func TestHandleUpdateMessageSkipsStaleRevision(t *testing.T) {
	blobs := storage.NewMemoryRepository()
	seedBlob(t, blobs)
	exporter := memory.New()
	w := NewExportWorker(blobs, exporter, "")

	if err := w.HandleUpdateMessage(context.Background(), amqp.NewDocumentUpdatedMessage(store.DefaultDocumentKey, 5)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	// A duplicate and an older revision should both be ignored.
	if err := w.HandleUpdateMessage(context.Background(), amqp.NewDocumentUpdatedMessage(store.DefaultDocumentKey, 5)); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if err := w.HandleUpdateMessage(context.Background(), amqp.NewDocumentUpdatedMessage(store.DefaultDocumentKey, 3)); err != nil {
		t.Fatalf("older: %v", err)
	}

	if _, n := exporter.Last(); n != 1 {
		t.Errorf("exports = %d, want 1", n)
	}
}

func TestHandleUpdateMessageIgnoresForeignKey(t *testing.T) {
	blobs := storage.NewMemoryRepository()
	seedBlob(t, blobs)
	exporter := memory.New()
	w := NewExportWorker(blobs, exporter, "")

	if err := w.HandleUpdateMessage(context.Background(), amqp.NewDocumentUpdatedMessage("otherKey", 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, n := exporter.Last(); n != 0 {
		t.Errorf("exports = %d, want 0", n)
	}
}

func TestExportMissingDocumentIsNoop(t *testing.T) {
	blobs := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(blobs, exporter, "")

	if err := w.HandleUpdateMessage(context.Background(), amqp.NewDocumentUpdatedMessage(store.DefaultDocumentKey, 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, n := exporter.Last(); n != 0 {
		t.Errorf("exports = %d, want 0", n)
	}
}

func TestExportCorruptDocumentFails(t *testing.T) {
	blobs := storage.NewMemoryRepository()
	if err := blobs.Put(context.Background(), store.DefaultDocumentKey, "{not json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	w := NewExportWorker(blobs, memory.New(), "")

	if err := w.HandleUpdateMessage(context.Background(), amqp.NewDocumentUpdatedMessage(store.DefaultDocumentKey, 1)); err == nil {
		t.Fatal("expected decode error")
	}
}
