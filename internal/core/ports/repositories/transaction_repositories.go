package repositories

import (
	"context"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
)

// TransactionReader defines read operations for the transaction snapshot
type TransactionReader interface {
	// LoadAll returns every stored transaction ordered by date, then id.
	// An empty store yields an empty slice and no error.
	LoadAll(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for the transaction snapshot
type TransactionWriter interface {
	// SaveAll replaces the stored snapshot with txs in a single atomic write.
	// Transactions absent from txs are removed.
	SaveAll(ctx context.Context, txs []domain.Transaction) error
}

// TotalsReader aggregates included amounts inside the store.
type TotalsReader interface {
	// SumTotals sums income and expense over the rows that count toward totals
	// for view, restricted to the selected user when one is set.
	SumTotals(ctx context.Context, view domain.ViewContext) (domain.Totals, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
