package core

import "sort"

type (
	// Summary holds the derived top-line figures. It is recomputed from the
	// document after every mutation and never stored.
	Summary struct {
		TotalIncome   Money   `json:"totalIncome"`
		TotalExpenses Money   `json:"totalExpenses"`
		Balance       Money   `json:"balance"`
		SavingsRate   float64 `json:"savingsRate"`
	}

	// BudgetStatus is the per-category spend position against its limit.
	BudgetStatus struct {
		Spent     Money `json:"spent"`
		Limit     Money `json:"limit"`
		Remaining Money `json:"remaining"`
	}

	// Transaction is a read-only unified view of an income or expense for
	// history listings. It is derived, never persisted.
	Transaction struct {
		ID          string       `json:"id"`
		Type        CategoryType `json:"type"`
		Amount      Money        `json:"amount"`
		Category    string       `json:"category"`
		Date        Date         `json:"date"`
		Description string       `json:"description"`
	}
)

// Summarize derives the top-line totals from a document snapshot.
// SavingsRate is the balance as a percentage of total income, 0 when there
// is no income.
func Summarize(doc Document) Summary {
	var s Summary
	for _, in := range doc.Incomes {
		s.TotalIncome.Cents += in.Amount.Cents
	}
	for _, ex := range doc.Expenses {
		s.TotalExpenses.Cents += ex.Amount.Cents
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents
	if s.TotalIncome.Cents > 0 {
		s.SavingsRate = float64(s.Balance.Cents) / float64(s.TotalIncome.Cents) * 100
	}
	return s
}

// ExpensesByCategory totals expense amounts keyed by category name. Every
// expense-type category appears, at zero when nothing was spent. Expenses
// referencing an unknown category name accumulate under that literal name;
// the join is intentionally permissive.
func ExpensesByCategory(doc Document) map[string]Money {
	out := make(map[string]Money)
	for _, c := range doc.Categories {
		if c.Type == ExpenseType {
			out[c.Name] = Money{}
		}
	}
	for _, ex := range doc.Expenses {
		total := out[ex.Category]
		total.Cents += ex.Amount.Cents
		out[ex.Category] = total
	}
	return out
}

// RemainingBudget reports the spend position for every known expense-type
// category. Spending recorded under unknown category names is excluded.
func RemainingBudget(doc Document) map[string]BudgetStatus {
	spent := ExpensesByCategory(doc)
	out := make(map[string]BudgetStatus)
	for _, c := range doc.Categories {
		if c.Type != ExpenseType {
			continue
		}
		s := spent[c.Name]
		out[c.Name] = BudgetStatus{
			Spent:     s,
			Limit:     c.BudgetLimit,
			Remaining: Money{Cents: c.BudgetLimit.Cents - s.Cents},
		}
	}
	return out
}

// TransactionHistory projects incomes and expenses into a single list,
// most recent first. The sort is stable, so entries sharing a date keep
// the concatenation order: incomes before expenses, insertion order within
// each.
func TransactionHistory(doc Document) []Transaction {
	out := make([]Transaction, 0, len(doc.Incomes)+len(doc.Expenses))
	for _, in := range doc.Incomes {
		out = append(out, Transaction{
			ID:          in.ID,
			Type:        IncomeType,
			Amount:      in.Amount,
			Category:    in.Source,
			Date:        in.Date,
			Description: "Income from " + in.Source,
		})
	}
	for _, ex := range doc.Expenses {
		out = append(out, Transaction{
			ID:          ex.ID,
			Type:        ExpenseType,
			Amount:      ex.Amount,
			Category:    ex.Category,
			Date:        ex.Date,
			Description: ex.Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// MonthlySpending sums expenses recorded in the same calendar month and
// year as asOf.
func MonthlySpending(doc Document, asOf Date) Money {
	var total Money
	for _, ex := range doc.Expenses {
		if ex.Date.SameMonth(asOf) {
			total.Cents += ex.Amount.Cents
		}
	}
	return total
}

// CategoryByName looks a category up by its name, the soft foreign key used
// by Income.Source and Expense.Category. The second return value is false
// for unknown names; callers decide how to treat dangling references.
func CategoryByName(doc Document, name string) (Category, bool) {
	for _, c := range doc.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
