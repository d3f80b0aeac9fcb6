package services

import (
	"context"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// ListTransactions returns a page of transactions ordered by date, then id,
	// each annotated with its inclusion decision for the requested view.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// ImportTransactions validates and appends transactions to the snapshot.
	ImportTransactions(ctx context.Context, reqs []dto.CreateTransactionRequest, importedBy string) ([]domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
