package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID            string          `json:"transactionID"`            // Primary Key
	TransactionDate          *time.Time      `json:"transactionDate"`          // Nullable; NULL for records without a date
	Description              string          `json:"description"`              // Not Null, may be empty
	Category                 string          `json:"category"`                 // Not Null, may be empty
	Amount                   decimal.Decimal `json:"amount"`                   // NUMERIC, exact
	TransactionType          string          `json:"transactionType"`          // expense or income
	UserID                   string          `json:"userID"`                   // Owner of the transaction
	SourceID                 *string         `json:"sourceID"`                 // Nullable; NULL means manual entry
	Labels                   []string        `json:"labels"`                   // TEXT[]
	ExcludedFromCalculations bool            `json:"excludedFromCalculations"` // Manual exclusion flag
	TransferInfo             []byte          `json:"transferInfo"`             // JSONB, NULL when not annotated
	AuditFields
}
