package core

// DefaultCategories returns the fixed category seed: 4 income categories
// and 9 expense categories. Ids, names, colors, icons and limits are part
// of the persisted-document contract and must not change.
func DefaultCategories() []Category {
	return []Category{
		{ID: "income-salary", Name: "Salary", Color: "#10B981", Icon: "briefcase", Type: IncomeType},
		{ID: "income-business", Name: "Business", Color: "#10B981", Icon: "store", Type: IncomeType},
		{ID: "income-investments", Name: "Investments", Color: "#10B981", Icon: "trending-up", Type: IncomeType},
		{ID: "income-other", Name: "Other Income", Color: "#10B981", Icon: "plus-circle", Type: IncomeType},

		{ID: "expense-housing", Name: "Housing", Color: "#F59E0B", BudgetLimit: Money{Cents: 15000}, Icon: "home", Type: ExpenseType},
		{ID: "expense-food", Name: "Food", Color: "#EC4899", BudgetLimit: Money{Cents: 8000}, Icon: "utensils", Type: ExpenseType},
		{ID: "expense-transportation", Name: "Transportation", Color: "#3B82F6", BudgetLimit: Money{Cents: 5000}, Icon: "car", Type: ExpenseType},
		{ID: "expense-utilities", Name: "Utilities", Color: "#8B5CF6", BudgetLimit: Money{Cents: 3000}, Icon: "zap", Type: ExpenseType},
		{ID: "expense-healthcare", Name: "Healthcare", Color: "#EF4444", BudgetLimit: Money{Cents: 2000}, Icon: "activity", Type: ExpenseType},
		{ID: "expense-entertainment", Name: "Entertainment", Color: "#F472B6", BudgetLimit: Money{Cents: 4000}, Icon: "film", Type: ExpenseType},
		{ID: "expense-shopping", Name: "Shopping", Color: "#6366F1", BudgetLimit: Money{Cents: 5000}, Icon: "shopping-bag", Type: ExpenseType},
		{ID: "expense-education", Name: "Education", Color: "#2DD4BF", BudgetLimit: Money{Cents: 3000}, Icon: "book", Type: ExpenseType},
		{ID: "expense-other", Name: "Other", Color: "#9CA3AF", BudgetLimit: Money{Cents: 2000}, Icon: "more-horizontal", Type: ExpenseType},
	}
}

// SeedDocument returns the default document used when no persisted state
// exists or after a reset: the default categories and empty entry lists.
func SeedDocument() Document {
	return Document{
		Incomes:      []Income{},
		Expenses:     []Expense{},
		Categories:   DefaultCategories(),
		SavingsGoals: []SavingsGoal{},
	}
}
