package services

import (
	"context"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/transfers"
)

// ReconcilerSvc defines the full reconciliation pass
type ReconcilerSvc interface {
	// RunFullReconciliation re-detects every transfer in the stored snapshot and
	// writes the annotated snapshot back in one atomic save.
	RunFullReconciliation(ctx context.Context) (*domain.ReconciliationSummary, error)

	// DetectTransfers runs detection over the stored snapshot without persisting anything.
	DetectTransfers(ctx context.Context) (*transfers.Result, error)
}

// InclusionOverrideSvc defines manual inclusion decisions for transfers
type InclusionOverrideSvc interface {
	// OverrideInclusion records a person's decision for the transfer containing
	// transactionID and applies it to both legs. It returns the updated legs.
	OverrideInclusion(ctx context.Context, transactionID string, include bool) ([]domain.Transaction, error)
}

// ReconciliationSvcFacade combines all reconciliation-related service interfaces
type ReconciliationSvcFacade interface {
	ReconcilerSvc
	InclusionOverrideSvc
}
