package domain

import "github.com/shopspring/decimal"

// ViewContext is the perspective totals are computed from.
// A nil SelectedUserID is the household-wide "All Users" view.
type ViewContext struct {
	SelectedUserID *string `json:"selectedUserId"`
}

// AllUsers returns the household-wide view.
func AllUsers() ViewContext {
	return ViewContext{}
}

// ForUser returns the view of a single household member.
func ForUser(userID string) ViewContext {
	return ViewContext{SelectedUserID: &userID}
}

// IsAllUsers reports whether the view spans the whole household.
func (v ViewContext) IsAllUsers() bool {
	return v.SelectedUserID == nil
}

// Totals aggregates the included transactions of a view.
type Totals struct {
	Income        decimal.Decimal `json:"income"`
	Expense       decimal.Decimal `json:"expense"`
	Net           decimal.Decimal `json:"net"`
	IncludedCount int             `json:"includedCount"`
	ExcludedCount int             `json:"excludedCount"`
}

// Evaluator selects where inclusion is decided when computing totals.
type Evaluator string

const (
	// EvaluatorMemory folds the loaded snapshot with the in-memory policy.
	EvaluatorMemory Evaluator = "memory"
	// EvaluatorSQL aggregates inside the database with the SQL predicate.
	EvaluatorSQL Evaluator = "sql"
)
