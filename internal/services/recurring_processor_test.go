package services

import (
	"context"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/storage"
	"bilancio/internal/store"
)

func newStore(t *testing.T) *store.BudgetStore {
	t.Helper()
	s := store.New(storage.NewMemoryRepository(), "")
	s.Load(context.Background())
	return s
}

func addRecurring(t *testing.T, s *store.BudgetStore, name string, date core.Date) core.Expense {
	t.Helper()
	ex, err := s.AddExpense(context.Background(), core.Expense{
		Category:    "Housing",
		Name:        name,
		Amount:      core.Money{Cents: 90000},
		Date:        date,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	return ex
}

func TestProcessDueMaterializesNewMonth(t *testing.T) {
	s := newStore(t)
	p := NewRecurringProcessor(s)
	addRecurring(t, s, "Rent", core.NewDate(2026, 2, 1))

	created, err := p.ProcessDue(context.Background(), core.NewDate(2026, 3, 10))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	doc := s.Document()
	if len(doc.Expenses) != 2 {
		t.Fatalf("expenses = %d, want template plus instance", len(doc.Expenses))
	}
	instance := doc.Expenses[1]
	if instance.Date.String() != "2026-03-01" {
		t.Errorf("instance date = %s, want 2026-03-01", instance.Date)
	}
	if !instance.IsRecurring || instance.Name != "Rent" || instance.Amount.Cents != 90000 {
		t.Errorf("instance = %+v", instance)
	}
	if instance.ID == doc.Expenses[0].ID {
		t.Error("instance must get a fresh id")
	}
}

func TestProcessDueIsIdempotentWithinMonth(t *testing.T) {
	s := newStore(t)
	p := NewRecurringProcessor(s)
	addRecurring(t, s, "Rent", core.NewDate(2026, 2, 1))

	asOf := core.NewDate(2026, 3, 10)
	if created, _ := p.ProcessDue(context.Background(), asOf); created != 1 {
		t.Fatal("first pass should create one instance")
	}
	if created, _ := p.ProcessDue(context.Background(), asOf); created != 0 {
		t.Error("second pass in the same month should create nothing")
	}
}

func TestProcessDueSkipsCurrentMonthTemplate(t *testing.T) {
	s := newStore(t)
	p := NewRecurringProcessor(s)
	addRecurring(t, s, "Rent", core.NewDate(2026, 3, 5))

	if created, _ := p.ProcessDue(context.Background(), core.NewDate(2026, 3, 20)); created != 0 {
		t.Error("a template dated this month is already this month's instance")
	}
}

func TestProcessDueIgnoresNonRecurring(t *testing.T) {
	s := newStore(t)
	p := NewRecurringProcessor(s)
	if _, err := s.AddExpense(context.Background(), core.Expense{
		Category: "Food",
		Name:     "Dinner out",
		Amount:   core.Money{Cents: 3500},
		Date:     core.NewDate(2026, 2, 14),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if created, _ := p.ProcessDue(context.Background(), core.NewDate(2026, 3, 1)); created != 0 {
		t.Error("one-off expenses must not be materialized")
	}
}

func TestMaterializeDateClampsDay(t *testing.T) {
	tests := []struct {
		template core.Date
		asOf     core.Date
		want     string
	}{
		{core.NewDate(2026, 1, 31), core.NewDate(2026, 2, 10), "2026-02-28"},
		{core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 10), "2024-02-29"}, // leap year
		{core.NewDate(2026, 1, 15), core.NewDate(2026, 4, 1), "2026-04-15"},
		{core.NewDate(2026, 3, 31), core.NewDate(2026, 4, 2), "2026-04-30"},
	}

	for _, tt := range tests {
		if got := materializeDate(tt.template, tt.asOf); got.String() != tt.want {
			t.Errorf("materializeDate(%s, %s) = %s, want %s", tt.template, tt.asOf, got, tt.want)
		}
	}
}

func TestLatestTemplatesPicksMostRecent(t *testing.T) {
	expenses := []core.Expense{
		{Category: "Housing", Name: "Rent", Amount: core.Money{Cents: 90000}, Date: core.NewDate(2026, 1, 1), IsRecurring: true},
		{Category: "Housing", Name: "Rent", Amount: core.Money{Cents: 95000}, Date: core.NewDate(2026, 2, 1), IsRecurring: true},
		{Category: "Utilities", Name: "Internet", Amount: core.Money{Cents: 3000}, Date: core.NewDate(2026, 1, 10), IsRecurring: true},
	}

	templates := latestTemplates(expenses)
	if len(templates) != 2 {
		t.Fatalf("templates = %d, want 2", len(templates))
	}
	if templates[0].Amount.Cents != 95000 {
		t.Errorf("rent template amount = %d, want the February one", templates[0].Amount.Cents)
	}
}
