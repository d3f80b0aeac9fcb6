// Package memory provides an in-process transaction store for tests and for
// running without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
)

// TransactionStore holds the snapshot in memory. Values are copied on the way in
// and out, so callers never share annotations with the store.
type TransactionStore struct {
	mu  sync.RWMutex
	txs []domain.Transaction
	now func() time.Time
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*TransactionStore)(nil)
	_ portsrepo.TotalsReader                = (*TransactionStore)(nil)
)

// NewTransactionStore returns a store seeded with txs.
func NewTransactionStore(txs ...domain.Transaction) *TransactionStore {
	s := &TransactionStore{now: time.Now}
	s.txs = s.sorted(txs)
	return s
}

// NewRepositoryProvider wires the in-memory store into a repository provider.
func NewRepositoryProvider(store *TransactionStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: store,
		TotalsRepo:      store,
	}
}

// LoadAll returns a copy of the snapshot ordered by date, then id. Undated records sort last.
func (s *TransactionStore) LoadAll(ctx context.Context) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, len(s.txs))
	for i, t := range s.txs {
		out[i] = clone(t)
	}
	return out, nil
}

// SaveAll replaces the snapshot with txs.
func (s *TransactionStore) SaveAll(ctx context.Context, txs []domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	created := make(map[string]time.Time, len(s.txs))
	for _, t := range s.txs {
		created[t.TransactionID] = t.CreatedAt
	}

	// Later duplicates replace earlier ones, as consecutive upserts would.
	byID := make(map[string]domain.Transaction, len(txs))
	for _, t := range txs {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = created[t.TransactionID]
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
		}
		t.LastUpdatedAt = now
		byID[t.TransactionID] = t
	}
	next := make([]domain.Transaction, 0, len(byID))
	for _, t := range byID {
		next = append(next, t)
	}
	s.txs = s.sorted(next)
	return nil
}

// SumTotals folds the snapshot, deciding inclusion with the SQL predicate
// evaluated over each row as PostgreSQL would store it.
func (s *TransactionStore) SumTotals(ctx context.Context, view domain.ViewContext) (domain.Totals, error) {
	txs, err := s.LoadAll(ctx)
	if err != nil {
		return domain.Totals{}, err
	}
	return inclusion.SumSQLForm(txs, view)
}

func (s *TransactionStore) sorted(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	for i, t := range txs {
		out[i] = clone(t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return b.Date.IsZero()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.TransactionID < b.TransactionID
	})
	return out
}

func clone(t domain.Transaction) domain.Transaction {
	if t.Labels != nil {
		t.Labels = append([]string(nil), t.Labels...)
	}
	if t.SourceID != nil {
		src := *t.SourceID
		t.SourceID = &src
	}
	if t.TransferInfo != nil {
		info := *t.TransferInfo
		if info.UserOverride != nil {
			v := *info.UserOverride
			info.UserOverride = &v
		}
		t.TransferInfo = &info
	}
	return t
}
