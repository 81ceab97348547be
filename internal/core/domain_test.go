package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIncomeValidate(t *testing.T) {
	valid := Income{Source: "Salary", Amount: Money{Cents: 50000}, Frequency: Monthly, Date: NewDate(2024, 1, 1)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid income rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Income)
		want   error
	}{
		{"empty source", func(i *Income) { i.Source = "  " }, ErrEmptySource},
		{"zero amount", func(i *Income) { i.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(i *Income) { i.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"bad frequency", func(i *Income) { i.Frequency = "fortnightly" }, ErrInvalidFrequency},
		{"zero date", func(i *Income) { i.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if err := in.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{Category: "Food", Name: "Groceries", Amount: Money{Cents: 8000}, Date: NewDate(2024, 1, 5)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"empty category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"empty description", func(e *Expense) { e.Name = " " }, ErrEmptyDescription},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := valid
			tc.mutate(&ex)
			if err := ex.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	valid := SavingsGoal{Name: "Trip", TargetAmount: Money{Cents: 10000}, CurrentAmount: Money{Cents: 2000}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}

	over := valid
	over.CurrentAmount = Money{Cents: 12000}
	if err := over.Validate(); !errors.Is(err, ErrCurrentOverTarget) {
		t.Fatalf("got %v, want ErrCurrentOverTarget", err)
	}

	neg := valid
	neg.CurrentAmount = Money{Cents: -1}
	if err := neg.Validate(); !errors.Is(err, ErrNegativeCurrent) {
		t.Fatalf("got %v, want ErrNegativeCurrent", err)
	}

	zeroTarget := valid
	zeroTarget.TargetAmount = Money{}
	if err := zeroTarget.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	valid := Category{Name: "Food", Type: ExpenseType, BudgetLimit: Money{Cents: 8000}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}
	if err := (Category{Name: "X", Type: "weird"}).Validate(); !errors.Is(err, ErrInvalidCategoryType) {
		t.Fatalf("expected ErrInvalidCategoryType")
	}
	if err := (Category{Name: "X", Type: ExpenseType, BudgetLimit: Money{Cents: -5}}).Validate(); !errors.Is(err, ErrNegativeLimit) {
		t.Fatalf("expected ErrNegativeLimit")
	}
}

func TestDocumentCloneIsIndependent(t *testing.T) {
	deadline := NewDate(2025, 6, 1)
	doc := Document{
		Incomes:      []Income{{ID: "a", Source: "Salary", Amount: Money{Cents: 1}, Frequency: Monthly, Date: NewDate(2024, 1, 1)}},
		Expenses:     []Expense{{ID: "b", Category: "Food", Name: "x", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 2)}},
		Categories:   DefaultCategories(),
		SavingsGoals: []SavingsGoal{{ID: "c", Name: "Trip", TargetAmount: Money{Cents: 10}, Deadline: &deadline}},
	}

	clone := doc.Clone()
	clone.Incomes[0].Source = "Business"
	clone.SavingsGoals[0].Deadline.Time = NewDate(2030, 1, 1).Time

	if doc.Incomes[0].Source != "Salary" {
		t.Fatalf("clone shares income backing array")
	}
	if !doc.SavingsGoals[0].Deadline.Equal(deadline.Time) {
		t.Fatalf("clone shares deadline pointer")
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := SeedDocument()
	doc.Incomes = append(doc.Incomes, Income{ID: "i1", Source: "Salary", Amount: Money{Cents: 50000}, Frequency: Monthly, Date: NewDate(2024, 1, 1)})
	doc.Expenses = append(doc.Expenses, Expense{ID: "e1", Category: "Food", Name: "Groceries", Amount: Money{Cents: 8000}, Date: NewDate(2024, 1, 5), IsRecurring: true})

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Document
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Incomes) != 1 || got.Incomes[0].Amount.Cents != 50000 {
		t.Fatalf("income lost in round trip: %+v", got.Incomes)
	}
	if got.Expenses[0].Date.String() != "2024-01-05" {
		t.Fatalf("expense date mangled: %s", got.Expenses[0].Date)
	}
	if !got.Expenses[0].IsRecurring {
		t.Fatalf("isRecurring lost")
	}
	if len(got.Categories) != 13 {
		t.Fatalf("expected 13 seed categories, got %d", len(got.Categories))
	}
}

func TestDateParseAcceptsLegacyTimestamps(t *testing.T) {
	d, err := ParseDate("2024-03-09T18:30:00.000Z")
	if err != nil {
		t.Fatalf("parse RFC3339: %v", err)
	}
	if d.String() != "2024-03-09" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatalf("expected error for garbage date")
	}
}
