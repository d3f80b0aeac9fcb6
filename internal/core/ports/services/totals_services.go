package services

import (
	"context"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
)

// TotalsSvc computes income, expense and net over the transactions that count
// toward totals for a view.
type TotalsSvc interface {
	Totals(ctx context.Context, view domain.ViewContext, evaluator domain.Evaluator) (*domain.Totals, error)
}
