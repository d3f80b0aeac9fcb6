package transfers

import "github.com/SscSPs/transfer_reconciler/internal/core/domain"

// Classify labels a pair by the owners of its legs.
func Classify(credit, debit domain.Transaction) domain.TransferType {
	if credit.UserID == debit.UserID {
		return domain.SelfTransfer
	}
	return domain.UserTransfer
}
