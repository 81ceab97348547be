package core

import (
	"errors"
	"strings"
)

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
	Yearly  Frequency = "yearly"
	OneTime Frequency = "one-time"
)

const (
	IncomeType  CategoryType = "income"
	ExpenseType CategoryType = "expense"
)

type (
	// Frequency describes how often an income repeats.
	Frequency string

	// CategoryType splits categories between the income and expense sides.
	CategoryType string

	// Income is a single recorded income entry. Source references a
	// category by name; the reference is not enforced.
	Income struct {
		ID        string    `json:"id"`
		Source    string    `json:"source"`
		Amount    Money     `json:"amount"`
		Frequency Frequency `json:"frequency"`
		Date      Date      `json:"date"`
	}

	// Expense is a single recorded expense entry.
	Expense struct {
		ID          string `json:"id"`
		Category    string `json:"category"`
		Name        string `json:"name"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
		IsRecurring bool   `json:"isRecurring"`
	}

	// Category groups incomes or expenses under a display name. Color and
	// Icon are opaque display tokens. BudgetLimit is only meaningful for
	// expense categories.
	Category struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		Color       string       `json:"color"`
		BudgetLimit Money        `json:"budgetLimit"`
		Icon        string       `json:"icon,omitempty"`
		Type        CategoryType `json:"type"`
	}

	// SavingsGoal tracks progress toward a target amount.
	SavingsGoal struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		TargetAmount  Money  `json:"targetAmount"`
		CurrentAmount Money  `json:"currentAmount"`
		Deadline      *Date  `json:"deadline,omitempty"`
	}

	// Document is the aggregate root: the complete financial record set.
	// Lists are keyed by id; insertion order is preserved for display only.
	Document struct {
		Incomes      []Income      `json:"incomes"`
		Expenses     []Expense     `json:"expenses"`
		Categories   []Category    `json:"categories"`
		SavingsGoals []SavingsGoal `json:"savingsGoals"`
	}
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidDate         = errors.New("date is required")
	ErrEmptySource         = errors.New("empty income source")
	ErrEmptyCategory       = errors.New("empty expense category")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrNegativeLimit       = errors.New("budget limit cannot be negative")
	ErrNegativeCurrent     = errors.New("current amount cannot be negative")
	ErrCurrentOverTarget   = errors.New("current amount exceeds target amount")
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Weekly, Yearly, OneTime:
		return true
	}
	return false
}

// Valid reports whether t is income or expense.
func (t CategoryType) Valid() bool {
	return t == IncomeType || t == ExpenseType
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if !i.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidCategoryType
	}
	if c.BudgetLimit.Cents < 0 {
		return ErrNegativeLimit
	}
	return nil
}

// Validate checks the creation-time contract. The current-vs-target bound
// is only enforced here, not on later updates.
func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrNegativeCurrent
	}
	if g.CurrentAmount.Cents > g.TargetAmount.Cents {
		return ErrCurrentOverTarget
	}
	return nil
}

// Clone returns a deep copy of the document. Mutation operations work on a
// clone and swap it in atomically so readers never observe partial state.
func (d Document) Clone() Document {
	out := Document{
		Incomes:      make([]Income, len(d.Incomes)),
		Expenses:     make([]Expense, len(d.Expenses)),
		Categories:   make([]Category, len(d.Categories)),
		SavingsGoals: make([]SavingsGoal, len(d.SavingsGoals)),
	}
	copy(out.Incomes, d.Incomes)
	copy(out.Expenses, d.Expenses)
	copy(out.Categories, d.Categories)
	for i, g := range d.SavingsGoals {
		if g.Deadline != nil {
			dl := *g.Deadline
			g.Deadline = &dl
		}
		out.SavingsGoals[i] = g
	}
	return out
}
