package services_test

import (
	"context"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) LoadAll(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveAll(ctx context.Context, txs []domain.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

// --- Mock TotalsReader ---
type MockTotalsReader struct {
	mock.Mock
}

var _ portsrepo.TotalsReader = (*MockTotalsReader)(nil)

func (m *MockTotalsReader) SumTotals(ctx context.Context, view domain.ViewContext) (domain.Totals, error) {
	args := m.Called(ctx, view)
	return args.Get(0).(domain.Totals), args.Error(1)
}
