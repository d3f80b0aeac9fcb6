package dto

import (
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is one transaction of an import batch.
type CreateTransactionRequest struct {
	TransactionID            string                 `json:"id" binding:"omitempty,max=128"` // Generated when empty
	Date                     time.Time              `json:"date"`
	Description              string                 `json:"description" binding:"max=500"`
	Category                 string                 `json:"category" binding:"max=100"`
	Amount                   decimal.Decimal        `json:"amount"`
	Type                     domain.TransactionType `json:"type" binding:"required,oneof=expense income"`
	UserID                   string                 `json:"user" binding:"required"`
	SourceID                 *string                `json:"sourceId"` // Optional, nil means manual entry
	Labels                   []string               `json:"labels" binding:"omitempty,dive,required"`
	ExcludedFromCalculations bool                   `json:"excludedFromCalculations"`
}

// ImportTransactionsRequest is the body of a bulk import.
type ImportTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=1,dive"`
}

// ImportTransactionsResponse lists the ids assigned to imported transactions.
type ImportTransactionsResponse struct {
	Imported       int      `json:"imported"`
	TransactionIDs []string `json:"transactionIDs"`
}

// OverrideInclusionRequest is the body of an inclusion override.
type OverrideInclusionRequest struct {
	IncludeInCalculations *bool `json:"includeInCalculations" binding:"required"`
}

// TransactionResponse is a transaction together with its inclusion decision for
// the requested view.
type TransactionResponse struct {
	TransactionID            string                 `json:"id"`
	Date                     time.Time              `json:"date"`
	Description              string                 `json:"description"`
	Category                 string                 `json:"category"`
	Amount                   decimal.Decimal        `json:"amount"`
	Type                     domain.TransactionType `json:"type"`
	UserID                   string                 `json:"user"`
	Source                   string                 `json:"source"`
	Labels                   []string               `json:"labels,omitempty"`
	ExcludedFromCalculations bool                   `json:"excludedFromCalculations"`
	TransferInfo             *domain.TransferInfo   `json:"transferInfo,omitempty"`
	Included                 bool                   `json:"included"`
	InclusionReason          inclusion.Reason       `json:"inclusionReason"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	UserID    *string `form:"userID"`
	Included  *bool   `form:"included"`
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// View returns the viewing context selected by the parameters.
func (p ListTransactionsParams) View() domain.ViewContext {
	if p.UserID == nil || *p.UserID == "" {
		return domain.AllUsers()
	}
	return domain.ForUser(*p.UserID)
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(tx domain.Transaction, view domain.ViewContext) TransactionResponse {
	decision := inclusion.Decide(tx, view)
	return TransactionResponse{
		TransactionID:            tx.TransactionID,
		Date:                     tx.Date,
		Description:              tx.Description,
		Category:                 tx.Category,
		Amount:                   tx.Amount,
		Type:                     tx.Type,
		UserID:                   tx.UserID,
		Source:                   tx.Source(),
		Labels:                   tx.Labels,
		ExcludedFromCalculations: tx.ExcludedFromCalculations,
		TransferInfo:             tx.TransferInfo,
		Included:                 decision.Included,
		InclusionReason:          decision.Reason,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txs []domain.Transaction, view domain.ViewContext) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = ToTransactionResponse(tx, view)
	}
	return responses
}
