// Package services holds orchestration logic that sits above the store.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/store"
)

// RecurringProcessor materializes recurring expenses. An expense flagged
// recurring acts as a monthly template: once a new month starts, a copy is
// recorded for that month on the same day, clamped to the month's length.
type RecurringProcessor struct {
	store *store.BudgetStore
}

func NewRecurringProcessor(s *store.BudgetStore) *RecurringProcessor {
	return &RecurringProcessor{store: s}
}

// ProcessDue creates this month's instances for every recurring template
// that has none yet. It returns the number of expenses created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, asOf core.Date) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	doc := p.store.Document()
	templates := latestTemplates(doc.Expenses)

	created := 0
	for _, tpl := range templates {
		if !isDue(tpl, doc.Expenses, asOf) {
			continue
		}

		instance := core.Expense{
			Category:    tpl.Category,
			Name:        tpl.Name,
			Amount:      tpl.Amount,
			Date:        materializeDate(tpl.Date, asOf),
			IsRecurring: true,
		}

		added, err := p.store.AddExpense(ctx, instance)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring expense",
				"name", tpl.Name,
				applog.FieldCategory, tpl.Category,
				applog.FieldError, err)
			continue
		}

		created++
		slog.InfoContext(ctx, "Materialized recurring expense",
			applog.FieldEntityID, added.ID,
			applog.FieldOperation, applog.OpMaterialize,
			"name", added.Name,
			applog.FieldCategory, added.Category,
			applog.FieldAmountCents, added.Amount.Cents,
			"date", added.Date.String())
	}

	if created > 0 {
		slog.InfoContext(ctx, "Recurring expense processing complete",
			"created", created,
			"templates", len(templates))
	}

	return created, nil
}

// Run processes due templates immediately and then on every tick until
// ctx is cancelled.
func (p *RecurringProcessor) Run(ctx context.Context, interval time.Duration) error {
	if _, err := p.ProcessDue(ctx, core.Today()); err != nil {
		slog.ErrorContext(ctx, "Initial recurring pass failed", applog.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.ProcessDue(ctx, core.Today()); err != nil {
				slog.ErrorContext(ctx, "Recurring pass failed", applog.FieldError, err)
			}
		}
	}
}

// latestTemplates returns the most recent recurring expense for each
// name and category pair. Older instances of the same template are just
// history.
func latestTemplates(expenses []core.Expense) []core.Expense {
	type key struct{ category, name string }
	latest := make(map[key]core.Expense)
	order := make([]key, 0)

	for _, ex := range expenses {
		if !ex.IsRecurring {
			continue
		}
		k := key{ex.Category, ex.Name}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
			latest[k] = ex
			continue
		}
		if ex.Date.After(prev.Date.Time) {
			latest[k] = ex
		}
	}

	out := make([]core.Expense, 0, len(latest))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}

// isDue reports whether the template needs an instance in asOf's month.
// A template dated in the current month is its own instance.
func isDue(tpl core.Expense, expenses []core.Expense, asOf core.Date) bool {
	if tpl.Date.SameMonth(asOf) {
		return false
	}
	for _, ex := range expenses {
		if ex.IsRecurring && ex.Category == tpl.Category && ex.Name == tpl.Name && ex.Date.SameMonth(asOf) {
			return false
		}
	}
	return true
}

// materializeDate keeps the template's day of month, clamped to the
// target month's length (a Jan 31 template lands on Feb 28).
func materializeDate(template, asOf core.Date) core.Date {
	day := template.Day()
	last := lastDayOfMonth(asOf.Year(), int(asOf.Month()))
	if day > last {
		day = last
	}
	return core.NewDate(asOf.Year(), int(asOf.Month()), day)
}

func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
