package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/transfer_reconciler/internal/apperrors"
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
)

type totalsService struct {
	BaseService
	txRepo     portsrepo.TransactionReader
	totalsRepo portsrepo.TotalsReader
}

// NewTotalsService creates a totals service. The memory evaluator reads the snapshot
// through txRepo; the sql evaluator aggregates through totalsRepo.
func NewTotalsService(txRepo portsrepo.TransactionReader, totalsRepo portsrepo.TotalsReader) portssvc.TotalsSvc {
	return &totalsService{txRepo: txRepo, totalsRepo: totalsRepo}
}

var _ portssvc.TotalsSvc = (*totalsService)(nil)

// Totals computes the totals of view with the requested evaluator. An empty
// evaluator selects the in-memory one.
func (s *totalsService) Totals(ctx context.Context, view domain.ViewContext, evaluator domain.Evaluator) (*domain.Totals, error) {
	var (
		totals domain.Totals
		err    error
	)
	switch evaluator {
	case domain.EvaluatorMemory, "":
		evaluator = domain.EvaluatorMemory
		var txs []domain.Transaction
		txs, err = s.txRepo.LoadAll(ctx)
		if err == nil {
			totals = inclusion.Sum(txs, view)
		}
	case domain.EvaluatorSQL:
		if s.totalsRepo == nil {
			return nil, apperrors.NewValidationError("sql evaluator is not available for this store", nil)
		}
		totals, err = s.totalsRepo.SumTotals(ctx, view)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown evaluator %q", evaluator), nil)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to compute totals", slog.String("evaluator", string(evaluator)))
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	s.LogDebug(ctx, "Totals computed",
		slog.String("evaluator", string(evaluator)),
		slog.Bool("all_users", view.IsAllUsers()),
		slog.Int("included", totals.IncludedCount))
	return &totals, nil
}
