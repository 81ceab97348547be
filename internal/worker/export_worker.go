// Package worker mirrors the budget document to an external spreadsheet.
// It reacts to document-change messages and additionally re-exports on a
// timer as a backup in case messages are lost.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/sheets"
	"bilancio/internal/store"
)

type ExportWorker struct {
	blobs    store.BlobStore
	exporter sheets.SnapshotExporter
	key      string

	mu           sync.Mutex
	lastExported int64
}

func NewExportWorker(blobs store.BlobStore, exporter sheets.SnapshotExporter, key string) *ExportWorker {
	if key == "" {
		key = store.DefaultDocumentKey
	}
	return &ExportWorker{
		blobs:    blobs,
		exporter: exporter,
		key:      key,
	}
}

// HandleUpdateMessage exports the document announced by msg. Messages for
// other keys and revisions at or below the last export are skipped; the
// periodic pass covers anything a skipped message might have carried.
func (w *ExportWorker) HandleUpdateMessage(ctx context.Context, msg *amqp.DocumentUpdatedMessage) error {
	if msg.Key != w.key {
		slog.DebugContext(ctx, "Ignoring update for foreign key", applog.FieldDocumentKey, msg.Key)
		return nil
	}

	w.mu.Lock()
	stale := msg.Revision <= w.lastExported
	w.mu.Unlock()
	if stale {
		slog.DebugContext(ctx, "Skipping stale update",
			applog.FieldRevision, msg.Revision,
			"last_exported", w.lastExported)
		return nil
	}

	if err := w.export(ctx, msg.Revision); err != nil {
		return fmt.Errorf("handle update for revision %d: %w", msg.Revision, err)
	}
	return nil
}

// RunPeriodic re-exports the current document every interval until ctx is
// cancelled. This is the safety net for lost messages.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting periodic export", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic export", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.mu.Lock()
			revision := w.lastExported
			w.mu.Unlock()
			if err := w.export(ctx, revision); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", applog.FieldError, err)
			}
		}
	}
}

func (w *ExportWorker) export(ctx context.Context, revision int64) error {
	raw, ok, err := w.blobs.Get(ctx, w.key)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if !ok {
		slog.WarnContext(ctx, "No document to export", applog.FieldDocumentKey, w.key)
		return nil
	}

	var doc core.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	snap := store.Snapshot{
		Document: doc,
		Summary:  core.Summarize(doc),
		Revision: revision,
	}
	if err := w.exporter.ExportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	w.mu.Lock()
	if revision > w.lastExported {
		w.lastExported = revision
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Exported document",
		applog.FieldDocumentKey, w.key,
		applog.FieldOperation, applog.OpExport,
		applog.FieldRevision, revision,
		"incomes", len(doc.Incomes),
		"expenses", len(doc.Expenses))

	return nil
}
