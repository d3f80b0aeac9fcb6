package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferType classifies a transfer by the owners of its two legs.
type TransferType string

const (
	// SelfTransfer moves money between accounts of the same user.
	SelfTransfer TransferType = "self"
	// UserTransfer moves money between two household members.
	UserTransfer TransferType = "user"
)

// TransferInfo is the annotation a reconciliation pass attaches to both legs of a
// transfer. The JSON keys are read directly by the SQL inclusion predicate.
type TransferInfo struct {
	IsTransfer               bool         `json:"isTransfer"`
	TransferID               string       `json:"transferId,omitempty"`
	TransferType             TransferType `json:"transferType,omitempty"`
	ExcludedFromCalculations bool         `json:"excludedFromCalculations"`
	UserOverride             *bool        `json:"userOverride,omitempty"` // nil when never set
}

// HasUserOverride reports whether a person explicitly decided inclusion for the pair.
// A stored false is the value written by detection and carries no decision.
func (ti *TransferInfo) HasUserOverride() bool {
	return ti != nil && ti.UserOverride != nil && *ti.UserOverride
}

// TransferPair is one detected transfer. Credit is the income leg, Debit the expense leg.
type TransferPair struct {
	Credit       Transaction  `json:"credit"`
	Debit        Transaction  `json:"debit"`
	TransferID   string       `json:"transferId"`
	TransferType TransferType `json:"transferType"`
	Confidence   float64      `json:"confidence"`
}

// Fingerprint identifies the pair by its participants, independent of the transfer ID.
func (p TransferPair) Fingerprint() string {
	return PairFingerprint(p.Credit.TransactionID, p.Debit.TransactionID)
}

// PairFingerprint orders two transaction IDs into a stable key.
func PairFingerprint(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// TransferDetail is the per-pair line of a reconciliation summary.
type TransferDetail struct {
	TransferID         string          `json:"transferId"`
	TransferType       TransferType    `json:"transferType"`
	CreditID           string          `json:"creditId"`
	DebitID            string          `json:"debitId"`
	CreditUserID       string          `json:"creditUser"`
	DebitUserID        string          `json:"debitUser"`
	Amount             decimal.Decimal `json:"amount"`
	CreditDate         time.Time       `json:"creditDate"`
	DebitDate          time.Time       `json:"debitDate"`
	Confidence         float64         `json:"confidence"`
	OverrideRestored   bool            `json:"overrideRestored,omitempty"`
	IncludedByOverride bool            `json:"includedByOverride,omitempty"`
}

// ReconciliationSummary reports the outcome of a full reconciliation pass.
type ReconciliationSummary struct {
	Timestamp               time.Time        `json:"timestamp"`
	TotalTransactions       int              `json:"totalTransactions"`
	ExistingTransfersBefore int              `json:"existingTransfersBefore"`
	NewTransfersDetected    int              `json:"newTransfersDetected"`
	UserTransferCount       int              `json:"userTransferCount"`
	SelfTransferCount       int              `json:"selfTransferCount"`
	OverridesRestored       int              `json:"overridesRestored"`
	SkippedMalformed        int              `json:"skippedMalformed"`
	TransferDetails         []TransferDetail `json:"transferDetails"`
}
