package store

import "bilancio/internal/core"

// Patch types carry partial updates: nil fields are left untouched. They
// replace the old frontend's unchecked shallow merge with an explicit
// per-entity shape. Patched values are not re-validated; updates are
// permissive by design.

type IncomePatch struct {
	Source    *string         `json:"source"`
	Amount    *core.Money     `json:"amount"`
	Frequency *core.Frequency `json:"frequency"`
	Date      *core.Date      `json:"date"`
}

func (p IncomePatch) apply(in *core.Income) {
	if p.Source != nil {
		in.Source = *p.Source
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Frequency != nil {
		in.Frequency = *p.Frequency
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
}

type ExpensePatch struct {
	Category    *string     `json:"category"`
	Name        *string     `json:"name"`
	Amount      *core.Money `json:"amount"`
	Date        *core.Date  `json:"date"`
	IsRecurring *bool       `json:"isRecurring"`
}

func (p ExpensePatch) apply(ex *core.Expense) {
	if p.Category != nil {
		ex.Category = *p.Category
	}
	if p.Name != nil {
		ex.Name = *p.Name
	}
	if p.Amount != nil {
		ex.Amount = *p.Amount
	}
	if p.Date != nil {
		ex.Date = *p.Date
	}
	if p.IsRecurring != nil {
		ex.IsRecurring = *p.IsRecurring
	}
}

type CategoryPatch struct {
	Name        *string            `json:"name"`
	Color       *string            `json:"color"`
	BudgetLimit *core.Money        `json:"budgetLimit"`
	Icon        *string            `json:"icon"`
	Type        *core.CategoryType `json:"type"`
}

func (p CategoryPatch) apply(c *core.Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.BudgetLimit != nil {
		c.BudgetLimit = *p.BudgetLimit
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
}

type SavingsGoalPatch struct {
	Name          *string     `json:"name"`
	TargetAmount  *core.Money `json:"targetAmount"`
	CurrentAmount *core.Money `json:"currentAmount"`
	Deadline      *core.Date  `json:"deadline"`
	// ClearDeadline removes an existing deadline. A nil Deadline means
	// "leave unchanged", so clearing needs this explicit flag.
	ClearDeadline bool `json:"clearDeadline"`
}

func (p SavingsGoalPatch) apply(g *core.SavingsGoal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	switch {
	case p.ClearDeadline:
		g.Deadline = nil
	case p.Deadline != nil:
		d := *p.Deadline
		g.Deadline = &d
	}
}
