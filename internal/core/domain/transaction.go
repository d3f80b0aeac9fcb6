package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of money for a transaction.
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// ManualSource is the logical source of transactions that carry no source ID.
const ManualSource = "manual"

// Transaction is a single household money movement as imported from a source
// (bank export, card export or manual entry).
type Transaction struct {
	TransactionID            string          `json:"id"`
	Date                     time.Time       `json:"date"`
	Description              string          `json:"description"`
	Category                 string          `json:"category"`
	Amount                   decimal.Decimal `json:"amount"` // Magnitude; direction comes from Type
	Type                     TransactionType `json:"type"`
	UserID                   string          `json:"user"`
	SourceID                 *string         `json:"sourceId,omitempty"` // nil means ManualSource
	Labels                   []string        `json:"labels,omitempty"`
	ExcludedFromCalculations bool            `json:"excludedFromCalculations"` // Manual flag, independent of transfers
	TransferInfo             *TransferInfo   `json:"transferInfo,omitempty"`
	AuditFields
}

// Source returns the logical source of the transaction.
func (t Transaction) Source() string {
	if t.SourceID == nil || *t.SourceID == "" {
		return ManualSource
	}
	return *t.SourceID
}

// IsTransfer reports whether the transaction is currently annotated as a transfer leg.
func (t Transaction) IsTransfer() bool {
	return t.TransferInfo != nil && t.TransferInfo.IsTransfer
}

// Pairable reports whether the record is well-formed enough to take part in
// transfer detection. Malformed records stay in the batch but never pair.
func (t Transaction) Pairable() bool {
	if t.TransactionID == "" || t.Date.IsZero() {
		return false
	}
	return t.Type == Expense || t.Type == Income
}

// Magnitude returns the absolute amount of the transaction.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// Strip returns a copy of the transaction without transfer annotations.
func (t Transaction) Strip() Transaction {
	t.TransferInfo = nil
	return t
}
