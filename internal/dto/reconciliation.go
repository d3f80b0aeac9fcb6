package dto

import (
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/transfers"
)

// TransferPairResponse is a detected transfer as returned by a dry run.
type TransferPairResponse struct {
	TransferID   string              `json:"transferId"`
	TransferType domain.TransferType `json:"transferType"`
	Confidence   float64             `json:"confidence"`
	Credit       TransactionResponse `json:"credit"`
	Debit        TransactionResponse `json:"debit"`
}

// DetectTransfersResponse is the outcome of a dry-run detection pass.
type DetectTransfersResponse struct {
	Transfers []TransferPairResponse `json:"transfers"`
	Skipped   int                    `json:"skipped"`
}

// ToDetectTransfersResponse converts a detection result, rendering each leg from
// the household-wide view.
func ToDetectTransfersResponse(res *transfers.Result) DetectTransfersResponse {
	view := domain.AllUsers()
	out := DetectTransfersResponse{
		Transfers: make([]TransferPairResponse, 0, len(res.Transfers)),
		Skipped:   res.Skipped,
	}
	for _, p := range res.Transfers {
		out.Transfers = append(out.Transfers, TransferPairResponse{
			TransferID:   p.TransferID,
			TransferType: p.TransferType,
			Confidence:   p.Confidence,
			Credit:       ToTransactionResponse(p.Credit, view),
			Debit:        ToTransactionResponse(p.Debit, view),
		})
	}
	return out
}
