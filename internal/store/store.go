// Package store owns the single authoritative budget document: its
// in-memory snapshot, the mutation operations, id generation, and the
// load/save lifecycle against a blob persistence collaborator.
package store

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"bilancio/internal/core"
	applog "bilancio/internal/log"
)

// DefaultDocumentKey is the fixed key the document is persisted under.
// It matches the storage key used by earlier versions of the application.
const DefaultDocumentKey = "budgetData"

// BlobStore is the persistence collaborator: a durable key-value store
// holding the serialized document. Absent keys are reported via the bool,
// not an error.
type BlobStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// Snapshot is an immutable view of the document at one point in time,
// paired with its derived summary. Revision increases with every applied
// mutation and is safe to use as a cache key.
type Snapshot struct {
	Document core.Document
	Summary  core.Summary
	Revision int64
}

// Subscriber receives the new snapshot after each successful mutation.
// Subscribers run synchronously on the mutating goroutine and must not
// call back into the store.
type Subscriber func(Snapshot)

// BudgetStore serializes all mutations on a single document and writes
// each new snapshot through to the blob store. Persistence failures are
// logged and swallowed; the in-memory document stays authoritative.
type BudgetStore struct {
	mu       sync.Mutex
	blobs    BlobStore
	key      string
	doc      core.Document
	summary  core.Summary
	revision int64
	subs     []Subscriber

	// persistMu serializes blob writes; lastPersisted prevents a slow
	// writer from durably overwriting a newer snapshot.
	persistMu     sync.Mutex
	lastPersisted int64
}

// New creates a store bound to a blob store and document key. Call Load
// before serving reads.
func New(blobs BlobStore, key string) *BudgetStore {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &BudgetStore{blobs: blobs, key: key, doc: core.SeedDocument()}
}

// Load reads the persisted document. A missing or unparseable blob falls
// back to the seed document; neither is an error.
func (s *BudgetStore) Load(ctx context.Context) Snapshot {
	doc := core.SeedDocument()

	raw, ok, err := s.blobs.Get(ctx, s.key)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Failed to read persisted document, using seed",
			applog.FieldDocumentKey, s.key, applog.FieldError, err)
	case !ok:
		slog.InfoContext(ctx, "No persisted document found, using seed",
			applog.FieldDocumentKey, s.key)
	default:
		var loaded core.Document
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			slog.WarnContext(ctx, "Persisted document is corrupt, using seed",
				applog.FieldDocumentKey, s.key, applog.FieldError, err)
		} else {
			doc = loaded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.summary = core.Summarize(doc)
	s.revision++
	return s.snapshotLocked()
}

// Snapshot returns a copy of the current document, summary and revision.
func (s *BudgetStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Document returns a copy of the current document.
func (s *BudgetStore) Document() core.Document {
	return s.Snapshot().Document
}

// Summary returns the current derived summary.
func (s *BudgetStore) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Subscribe registers fn to be called with every snapshot produced by a
// successful mutation.
func (s *BudgetStore) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddIncome validates the entry, assigns an id, appends it and persists.
// The caller-supplied id, if any, is discarded.
func (s *BudgetStore) AddIncome(ctx context.Context, in core.Income) (core.Income, error) {
	in.ID = ""
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	in.ID = generateID()
	s.mutate(ctx, "income", applog.OpAdd, in.ID, func(doc *core.Document) {
		doc.Incomes = append(doc.Incomes, in)
	})
	return in, nil
}

// AddExpense validates the entry, assigns an id, appends it and persists.
func (s *BudgetStore) AddExpense(ctx context.Context, ex core.Expense) (core.Expense, error) {
	ex.ID = ""
	if err := ex.Validate(); err != nil {
		return core.Expense{}, err
	}
	ex.ID = generateID()
	s.mutate(ctx, "expense", applog.OpAdd, ex.ID, func(doc *core.Document) {
		doc.Expenses = append(doc.Expenses, ex)
	})
	return ex, nil
}

// AddCategory validates the category, assigns an id, appends it and
// persists. Name uniqueness is not enforced.
func (s *BudgetStore) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = ""
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = generateID()
	s.mutate(ctx, "category", applog.OpAdd, c.ID, func(doc *core.Document) {
		doc.Categories = append(doc.Categories, c)
	})
	return c, nil
}

// AddSavingsGoal validates the goal (including the creation-time
// current <= target bound), assigns an id, appends it and persists.
func (s *BudgetStore) AddSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	g.ID = ""
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.ID = generateID()
	s.mutate(ctx, "savings_goal", applog.OpAdd, g.ID, func(doc *core.Document) {
		doc.SavingsGoals = append(doc.SavingsGoals, g)
	})
	return g, nil
}

// UpdateIncome applies the patch to the income with the given id. A
// missing id is a silent no-op reported through the bool.
func (s *BudgetStore) UpdateIncome(ctx context.Context, id string, p IncomePatch) (core.Income, bool) {
	var updated core.Income
	found := false
	s.mutateIf(ctx, "income", applog.OpUpdate, id, func(doc *core.Document) bool {
		for i := range doc.Incomes {
			if doc.Incomes[i].ID == id {
				p.apply(&doc.Incomes[i])
				updated = doc.Incomes[i]
				found = true
				return true
			}
		}
		return false
	})
	return updated, found
}

// UpdateExpense applies the patch to the expense with the given id.
func (s *BudgetStore) UpdateExpense(ctx context.Context, id string, p ExpensePatch) (core.Expense, bool) {
	var updated core.Expense
	found := false
	s.mutateIf(ctx, "expense", applog.OpUpdate, id, func(doc *core.Document) bool {
		for i := range doc.Expenses {
			if doc.Expenses[i].ID == id {
				p.apply(&doc.Expenses[i])
				updated = doc.Expenses[i]
				found = true
				return true
			}
		}
		return false
	})
	return updated, found
}

// UpdateCategory applies the patch to the category with the given id.
func (s *BudgetStore) UpdateCategory(ctx context.Context, id string, p CategoryPatch) (core.Category, bool) {
	var updated core.Category
	found := false
	s.mutateIf(ctx, "category", applog.OpUpdate, id, func(doc *core.Document) bool {
		for i := range doc.Categories {
			if doc.Categories[i].ID == id {
				p.apply(&doc.Categories[i])
				updated = doc.Categories[i]
				found = true
				return true
			}
		}
		return false
	})
	return updated, found
}

// UpdateSavingsGoal applies the patch to the goal with the given id. The
// current <= target bound is deliberately not re-checked here.
func (s *BudgetStore) UpdateSavingsGoal(ctx context.Context, id string, p SavingsGoalPatch) (core.SavingsGoal, bool) {
	var updated core.SavingsGoal
	found := false
	s.mutateIf(ctx, "savings_goal", applog.OpUpdate, id, func(doc *core.Document) bool {
		for i := range doc.SavingsGoals {
			if doc.SavingsGoals[i].ID == id {
				p.apply(&doc.SavingsGoals[i])
				updated = doc.SavingsGoals[i]
				found = true
				return true
			}
		}
		return false
	})
	return updated, found
}

// DeleteIncome removes the income with the given id; a missing id is a
// silent no-op.
func (s *BudgetStore) DeleteIncome(ctx context.Context, id string) bool {
	return s.mutateIf(ctx, "income", applog.OpDelete, id, func(doc *core.Document) bool {
		for i := range doc.Incomes {
			if doc.Incomes[i].ID == id {
				doc.Incomes = append(doc.Incomes[:i], doc.Incomes[i+1:]...)
				return true
			}
		}
		return false
	})
}

// DeleteExpense removes the expense with the given id.
func (s *BudgetStore) DeleteExpense(ctx context.Context, id string) bool {
	return s.mutateIf(ctx, "expense", applog.OpDelete, id, func(doc *core.Document) bool {
		for i := range doc.Expenses {
			if doc.Expenses[i].ID == id {
				doc.Expenses = append(doc.Expenses[:i], doc.Expenses[i+1:]...)
				return true
			}
		}
		return false
	})
}

// DeleteCategory removes the category with the given id. Incomes and
// expenses referencing the category name are left untouched.
func (s *BudgetStore) DeleteCategory(ctx context.Context, id string) bool {
	return s.mutateIf(ctx, "category", applog.OpDelete, id, func(doc *core.Document) bool {
		for i := range doc.Categories {
			if doc.Categories[i].ID == id {
				doc.Categories = append(doc.Categories[:i], doc.Categories[i+1:]...)
				return true
			}
		}
		return false
	})
}

// DeleteSavingsGoal removes the goal with the given id.
func (s *BudgetStore) DeleteSavingsGoal(ctx context.Context, id string) bool {
	return s.mutateIf(ctx, "savings_goal", applog.OpDelete, id, func(doc *core.Document) bool {
		for i := range doc.SavingsGoals {
			if doc.SavingsGoals[i].ID == id {
				doc.SavingsGoals = append(doc.SavingsGoals[:i], doc.SavingsGoals[i+1:]...)
				return true
			}
		}
		return false
	})
}

// ResetAll replaces the document with the seed and persists it.
func (s *BudgetStore) ResetAll(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.doc = core.SeedDocument()
	s.summary = core.Summarize(s.doc)
	s.revision++
	snap := s.snapshotLocked()
	subs := append([]Subscriber(nil), s.subs...)
	s.mu.Unlock()

	slog.InfoContext(ctx, "Document reset to seed",
		applog.FieldDocumentKey, s.key,
		applog.FieldOperation, applog.OpReset,
		applog.FieldRevision, snap.Revision)
	s.persist(ctx, snap)
	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// mutate clones the document, applies fn, swaps the snapshot in and
// persists, then notifies subscribers.
func (s *BudgetStore) mutate(ctx context.Context, entity, op, id string, fn func(*core.Document)) {
	s.mutateIf(ctx, entity, op, id, func(doc *core.Document) bool {
		fn(doc)
		return true
	})
}

// mutateIf is mutate for operations that may not apply (update/delete of
// a missing id). When fn reports false the document is untouched: nothing
// is persisted and no notification fires.
func (s *BudgetStore) mutateIf(ctx context.Context, entity, op, id string, fn func(*core.Document) bool) bool {
	s.mu.Lock()
	next := s.doc.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		slog.DebugContext(ctx, "Mutation skipped, id not found",
			"entity", entity, applog.FieldOperation, op, applog.FieldEntityID, id)
		return false
	}
	s.doc = next
	s.summary = core.Summarize(next)
	s.revision++
	snap := s.snapshotLocked()
	subs := append([]Subscriber(nil), s.subs...)
	s.mu.Unlock()

	slog.InfoContext(ctx, "Document mutated",
		"entity", entity,
		applog.FieldOperation, op,
		applog.FieldEntityID, id,
		applog.FieldRevision, snap.Revision)
	s.persist(ctx, snap)
	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// persist writes the snapshot's document through to the blob store.
// Writes are serialized and revision-checked: once a newer snapshot has
// been written, an older one is skipped instead of overwriting it.
// Failures are logged, never propagated: the in-memory mutation already
// succeeded.
func (s *BudgetStore) persist(ctx context.Context, snap Snapshot) {
	raw, err := json.Marshal(snap.Document)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to serialize document",
			applog.FieldDocumentKey, s.key, applog.FieldError, err)
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if snap.Revision <= s.lastPersisted {
		slog.DebugContext(ctx, "Skipping persist of superseded snapshot",
			applog.FieldDocumentKey, s.key,
			applog.FieldRevision, snap.Revision,
			"persisted_revision", s.lastPersisted)
		return
	}
	if err := s.blobs.Put(ctx, s.key, string(raw)); err != nil {
		slog.WarnContext(ctx, "Failed to persist document, in-memory state kept",
			applog.FieldDocumentKey, s.key, applog.FieldError, err)
		return
	}
	s.lastPersisted = snap.Revision
}

func (s *BudgetStore) snapshotLocked() Snapshot {
	return Snapshot{Document: s.doc.Clone(), Summary: s.summary, Revision: s.revision}
}

// generateID produces ids unique with overwhelming probability across the
// process lifetime and restarts: millisecond timestamp plus a random
// suffix, both base36. Same scheme as the original document ids.
func generateID() string {
	var b [8]byte
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	if _, err := rand.Read(b[:]); err == nil {
		suffix = strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + suffix
}
