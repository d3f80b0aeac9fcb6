package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/apperrors"
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/core/transfers"
	"github.com/SscSPs/transfer_reconciler/internal/platform/metrics"
)

// reconciliationService implements portssvc.ReconciliationSvcFacade
type reconciliationService struct {
	BaseService
	repo              portsrepo.TransactionRepositoryFacade
	windowDays        int
	preserveOverrides bool
	metrics           *metrics.Metrics
	now               func() time.Time
}

// ReconciliationOption is a functional option for configuring the reconciliation service
type ReconciliationOption func(*reconciliationService)

// WithTransferWindowDays sets the largest date gap between the legs of a transfer.
func WithTransferWindowDays(days int) ReconciliationOption {
	return func(s *reconciliationService) {
		s.windowDays = days
	}
}

// WithPreserveOverrides controls whether human inclusion decisions survive a full
// reconciliation. When disabled every pass starts from default flags.
func WithPreserveOverrides(preserve bool) ReconciliationOption {
	return func(s *reconciliationService) {
		s.preserveOverrides = preserve
	}
}

// WithReconciliationMetrics records passes and overrides in m.
func WithReconciliationMetrics(m *metrics.Metrics) ReconciliationOption {
	return func(s *reconciliationService) {
		s.metrics = m
	}
}

// WithReconciliationSnapshotLock shares the snapshot write lock with other services.
func WithReconciliationSnapshotLock(mu *sync.Mutex) ReconciliationOption {
	return func(s *reconciliationService) {
		s.snapshotMu = mu
	}
}

// WithReconciliationClock sets the clock used for summary timestamps.
func WithReconciliationClock(now func() time.Time) ReconciliationOption {
	return func(s *reconciliationService) {
		s.now = now
	}
}

// NewReconciliationService creates a reconciliation service over repo.
func NewReconciliationService(repo portsrepo.TransactionRepositoryFacade, options ...ReconciliationOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		BaseService:       BaseService{snapshotMu: &sync.Mutex{}},
		repo:              repo,
		windowDays:        transfers.DefaultWindowDays,
		preserveOverrides: true,
		now:               time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// RunFullReconciliation strips every annotation, re-detects transfers and saves the
// annotated snapshot in one write.
func (s *reconciliationService) RunFullReconciliation(ctx context.Context) (*domain.ReconciliationSummary, error) {
	defer s.lockSnapshot()()

	start := time.Now()
	summary, err := s.runFullReconciliation(ctx)
	s.metrics.ObserveReconciliation(time.Since(start), err)
	return summary, err
}

func (s *reconciliationService) runFullReconciliation(ctx context.Context) (*domain.ReconciliationSummary, error) {
	summary := &domain.ReconciliationSummary{
		Timestamp:       s.now().UTC(),
		TransferDetails: []domain.TransferDetail{},
	}

	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for reconciliation")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		s.LogInfo(ctx, "No transactions to reconcile")
		return summary, nil
	}

	summary.TotalTransactions = len(txs)
	summary.ExistingTransfersBefore = countTransfers(txs)

	var decisions map[string]bool
	if s.preserveOverrides {
		decisions = recordedOverrides(txs)
	}

	res := transfers.DetectTransfers(txs, transfers.WithWindowDays(s.windowDays))
	summary.SkippedMalformed = res.Skipped

	index := make(map[string]int, len(res.UpdatedTransactions))
	for i, t := range res.UpdatedTransactions {
		if _, seen := index[t.TransactionID]; !seen {
			index[t.TransactionID] = i
		}
	}

	for _, p := range res.Transfers {
		detail := domain.TransferDetail{
			TransferID:   p.TransferID,
			TransferType: p.TransferType,
			CreditID:     p.Credit.TransactionID,
			DebitID:      p.Debit.TransactionID,
			CreditUserID: p.Credit.UserID,
			DebitUserID:  p.Debit.UserID,
			Amount:       p.Credit.Magnitude(),
			CreditDate:   p.Credit.Date,
			DebitDate:    p.Debit.Date,
			Confidence:   p.Confidence,
		}
		if excluded, ok := decisions[p.Fingerprint()]; ok {
			for _, id := range []string{p.Credit.TransactionID, p.Debit.TransactionID} {
				applyOverride(&res.UpdatedTransactions[index[id]], !excluded)
			}
			detail.OverrideRestored = true
			detail.IncludedByOverride = !excluded
			summary.OverridesRestored++
		}

		switch p.TransferType {
		case domain.UserTransfer:
			summary.UserTransferCount++
		case domain.SelfTransfer:
			summary.SelfTransferCount++
		}
		summary.TransferDetails = append(summary.TransferDetails, detail)
	}
	summary.NewTransfersDetected = len(res.Transfers)

	if err := s.repo.SaveAll(ctx, res.UpdatedTransactions); err != nil {
		s.LogError(ctx, err, "Failed to save reconciled transactions")
		return nil, fmt.Errorf("failed to save reconciled transactions: %w", err)
	}

	s.metrics.SetDetected(summary.UserTransferCount, summary.SelfTransferCount, summary.SkippedMalformed)
	s.LogInfo(ctx, "Reconciliation completed",
		slog.Int("total_transactions", summary.TotalTransactions),
		slog.Int("existing_transfers_before", summary.ExistingTransfersBefore),
		slog.Int("transfers_detected", summary.NewTransfersDetected),
		slog.Int("user_transfers", summary.UserTransferCount),
		slog.Int("self_transfers", summary.SelfTransferCount),
		slog.Int("overrides_restored", summary.OverridesRestored),
		slog.Int("skipped_malformed", summary.SkippedMalformed))
	return summary, nil
}

// DetectTransfers runs detection over the stored snapshot without saving.
func (s *reconciliationService) DetectTransfers(ctx context.Context) (*transfers.Result, error) {
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for detection")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	res := transfers.DetectTransfers(txs, transfers.WithWindowDays(s.windowDays))
	s.LogDebug(ctx, "Dry-run detection completed", slog.Int("transfers", len(res.Transfers)))
	return &res, nil
}

// OverrideInclusion applies a person's inclusion decision to both legs of the
// transfer containing transactionID. A leg without a partner is rejected and
// nothing is saved.
func (s *reconciliationService) OverrideInclusion(ctx context.Context, transactionID string, include bool) ([]domain.Transaction, error) {
	defer s.lockSnapshot()()

	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for override")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	leg := -1
	for i, t := range txs {
		if t.TransactionID == transactionID {
			leg = i
			break
		}
	}
	if leg < 0 {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	if !txs[leg].IsTransfer() {
		return nil, apperrors.NewAppError(409, "transaction "+transactionID+" cannot be overridden", apperrors.ErrNotTransfer)
	}

	transferID := txs[leg].TransferInfo.TransferID
	partner := -1
	for i, t := range txs {
		if i != leg && t.TransactionID != transactionID && t.IsTransfer() && transferID != "" && t.TransferInfo.TransferID == transferID {
			partner = i
			break
		}
	}
	if partner < 0 {
		err := apperrors.NewAppError(409, "transfer "+transferID+" of transaction "+transactionID+" is inconsistent", apperrors.ErrOrphanedTransfer)
		s.LogError(ctx, err, "Orphaned transfer leg, override rejected",
			slog.String("transaction_id", transactionID),
			slog.String("transfer_id", transferID))
		return nil, err
	}

	applyOverride(&txs[leg], include)
	applyOverride(&txs[partner], include)

	if err := s.repo.SaveAll(ctx, txs); err != nil {
		s.LogError(ctx, err, "Failed to save override", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to save override: %w", err)
	}

	s.metrics.IncrOverride(include)
	s.LogInfo(ctx, "Inclusion override applied",
		slog.String("transaction_id", transactionID),
		slog.String("partner_id", txs[partner].TransactionID),
		slog.String("transfer_id", transferID),
		slog.Bool("include", include))
	return []domain.Transaction{txs[leg], txs[partner]}, nil
}

// applyOverride records a human decision on one leg. The annotation is replaced,
// never mutated in place.
func applyOverride(t *domain.Transaction, include bool) {
	info := *t.TransferInfo
	decided := true
	info.UserOverride = &decided
	info.ExcludedFromCalculations = !include
	t.TransferInfo = &info
}

// countTransfers counts the distinct transfer IDs carried by txs.
func countTransfers(txs []domain.Transaction) int {
	ids := make(map[string]struct{})
	for _, t := range txs {
		if t.IsTransfer() && t.TransferInfo.TransferID != "" {
			ids[t.TransferInfo.TransferID] = struct{}{}
		}
	}
	return len(ids)
}

// recordedOverrides maps the fingerprint of every overridden pair to its
// excluded flag. Transfer IDs that do not resolve to exactly two legs are ignored.
func recordedOverrides(txs []domain.Transaction) map[string]bool {
	legs := make(map[string][]domain.Transaction)
	for _, t := range txs {
		if t.IsTransfer() && t.TransferInfo.TransferID != "" {
			legs[t.TransferInfo.TransferID] = append(legs[t.TransferInfo.TransferID], t)
		}
	}

	decisions := make(map[string]bool)
	for _, pair := range legs {
		if len(pair) != 2 {
			continue
		}
		a, b := pair[0].TransferInfo, pair[1].TransferInfo
		if !a.HasUserOverride() || !b.HasUserOverride() || a.ExcludedFromCalculations != b.ExcludedFromCalculations {
			continue
		}
		decisions[domain.PairFingerprint(pair[0].TransactionID, pair[1].TransactionID)] = a.ExcludedFromCalculations
	}
	return decisions
}
