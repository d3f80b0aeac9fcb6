package dto

import (
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TotalsParams defines query parameters for the totals report.
type TotalsParams struct {
	UserID    *string `form:"userID"`
	Evaluator string  `form:"evaluator,default=memory" binding:"oneof=memory sql"`
}

// View returns the viewing context selected by the parameters.
func (p TotalsParams) View() domain.ViewContext {
	if p.UserID == nil || *p.UserID == "" {
		return domain.AllUsers()
	}
	return domain.ForUser(*p.UserID)
}

// TotalsResponse is the totals report for one view.
type TotalsResponse struct {
	SelectedUserID *string          `json:"selectedUserId"`
	Evaluator      domain.Evaluator `json:"evaluator"`
	Income         decimal.Decimal  `json:"income"`
	Expense        decimal.Decimal  `json:"expense"`
	Net            decimal.Decimal  `json:"net"`
	IncludedCount  int              `json:"includedCount"`
	ExcludedCount  int              `json:"excludedCount"`
}

// ToTotalsResponse converts domain totals to TotalsResponse DTO.
func ToTotalsResponse(t domain.Totals, view domain.ViewContext, evaluator domain.Evaluator) TotalsResponse {
	return TotalsResponse{
		SelectedUserID: view.SelectedUserID,
		Evaluator:      evaluator,
		Income:         t.Income,
		Expense:        t.Expense,
		Net:            t.Net,
		IncludedCount:  t.IncludedCount,
		ExcludedCount:  t.ExcludedCount,
	}
}
