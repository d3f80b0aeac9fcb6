package services

import (
	"sync"

	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/platform/config"
	"github.com/SscSPs/transfer_reconciler/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	// Reconciliation, overrides and imports all rewrite the snapshot.
	snapshotMu := &sync.Mutex{}

	return &portssvc.ServiceContainer{
		Reconciliation: NewReconciliationService(repos.TransactionRepo,
			WithTransferWindowDays(cfg.TransferWindowDays),
			WithPreserveOverrides(cfg.PreserveOverrides),
			WithReconciliationMetrics(m),
			WithReconciliationSnapshotLock(snapshotMu),
		),
		Totals: NewTotalsService(repos.TransactionRepo, repos.TotalsRepo),
		Transactions: NewTransactionService(repos.TransactionRepo,
			WithTransactionSnapshotLock(snapshotMu),
		),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)
	_ portssvc.TransactionSvcFacade    = (*transactionService)(nil)
	_ portssvc.TotalsSvc               = (*totalsService)(nil)
)
