package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/apperrors"
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
	"github.com/SscSPs/transfer_reconciler/internal/utils/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type transactionService struct {
	BaseService
	repo     portsrepo.TransactionRepositoryFacade
	validate *validator.Validate
	now      func() time.Time
}

// TransactionOption is a functional option for configuring the transaction service
type TransactionOption func(*transactionService)

// WithTransactionSnapshotLock shares the snapshot write lock with other services.
func WithTransactionSnapshotLock(mu *sync.Mutex) TransactionOption {
	return func(s *transactionService) {
		s.snapshotMu = mu
	}
}

// NewTransactionService creates a transaction service over repo.
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, options ...TransactionOption) portssvc.TransactionSvcFacade {
	// Request DTOs carry gin "binding" tags; the same rules apply outside HTTP.
	v := validator.New()
	v.SetTagName("binding")

	svc := &transactionService{
		BaseService: BaseService{snapshotMu: &sync.Mutex{}},
		repo:        repo,
		validate:    v,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// ListTransactions returns one page of the snapshot for the requested view.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit < 0 || limit > maxPageSize {
		return nil, apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", maxPageSize), nil)
	}

	var cursor *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid nextToken", err)
		}
		cursor = &c
	}

	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for listing")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	view := params.View()
	page := make([]domain.Transaction, 0, limit)
	var nextToken *string
	for _, t := range txs {
		if !view.IsAllUsers() && t.UserID != *view.SelectedUserID {
			continue
		}
		if params.Included != nil && inclusion.Included(t, view) != *params.Included {
			continue
		}
		if cursor != nil && !cursor.After(t.Date, t.TransactionID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(last.Date, last.TransactionID)
			nextToken = &token
			break
		}
		page = append(page, t)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(page, view),
		NextToken:    nextToken,
	}, nil
}

// ImportTransactions validates reqs and appends them to the snapshot. Transfer
// annotations are not computed; a reconciliation pass picks the new records up.
func (s *transactionService) ImportTransactions(ctx context.Context, reqs []dto.CreateTransactionRequest, importedBy string) ([]domain.Transaction, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("no transactions to import", nil)
	}

	now := s.now().UTC()
	imported := make([]domain.Transaction, 0, len(reqs))
	batchIDs := make(map[string]struct{}, len(reqs))
	for i, req := range reqs {
		if err := s.validate.Struct(req); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("transaction %d is invalid", i), err)
		}
		if req.Date.IsZero() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("transaction %d has no date", i), nil)
		}

		id := strings.TrimSpace(req.TransactionID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := batchIDs[id]; dup {
			return nil, apperrors.NewAppError(409, "duplicate transaction id "+id+" in import", apperrors.ErrDuplicate)
		}
		batchIDs[id] = struct{}{}

		imported = append(imported, domain.Transaction{
			TransactionID:            id,
			Date:                     req.Date,
			Description:              req.Description,
			Category:                 req.Category,
			Amount:                   req.Amount.Abs(),
			Type:                     req.Type,
			UserID:                   req.UserID,
			SourceID:                 req.SourceID,
			Labels:                   req.Labels,
			ExcludedFromCalculations: req.ExcludedFromCalculations,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     importedBy,
				LastUpdatedAt: now,
				LastUpdatedBy: importedBy,
			},
		})
	}

	defer s.lockSnapshot()()

	existing, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for import")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, t := range existing {
		if _, dup := batchIDs[t.TransactionID]; dup {
			return nil, apperrors.NewAppError(409, "transaction "+t.TransactionID+" already exists", apperrors.ErrDuplicate)
		}
	}

	if err := s.repo.SaveAll(ctx, append(existing, imported...)); err != nil {
		s.LogError(ctx, err, "Failed to save imported transactions")
		return nil, fmt.Errorf("failed to save imported transactions: %w", err)
	}

	s.LogInfo(ctx, "Transactions imported",
		slog.Int("count", len(imported)),
		slog.String("imported_by", importedBy))
	return imported, nil
}
