// Package inclusion decides whether a transaction counts toward reported totals.
//
// The decision exists in two forms that must agree: Included, evaluated in memory
// over loaded transactions, and Predicate, a boolean SQL expression used inside
// aggregate queries. Both are checked against one conformance matrix.
package inclusion

import (
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Reason names the rule that produced an inclusion decision.
type Reason string

const (
	ReasonManuallyExcluded Reason = "manually_excluded"
	ReasonNotTransfer      Reason = "not_transfer"
	ReasonOverrideIncluded Reason = "override_included"
	ReasonOverrideExcluded Reason = "override_excluded"
	ReasonUserTransferAll  Reason = "user_transfer_household_view"
	ReasonUserTransferOwn  Reason = "user_transfer_member_view"
	ReasonSelfTransfer     Reason = "self_transfer"
	ReasonSelfTransferKept Reason = "self_transfer_included"
	ReasonUnknownTransfer  Reason = "unknown_transfer_type"
)

// Decision is the outcome of the policy for one transaction.
type Decision struct {
	Included bool   `json:"included"`
	Reason   Reason `json:"reason"`
}

// Decide evaluates the inclusion policy for tx seen from view. It never fails;
// unrecognised transfer types are excluded.
func Decide(tx domain.Transaction, view domain.ViewContext) Decision {
	if tx.ExcludedFromCalculations {
		return Decision{false, ReasonManuallyExcluded}
	}
	info := tx.TransferInfo
	if info == nil || !info.IsTransfer {
		return Decision{true, ReasonNotTransfer}
	}
	if info.HasUserOverride() {
		if info.ExcludedFromCalculations {
			return Decision{false, ReasonOverrideExcluded}
		}
		return Decision{true, ReasonOverrideIncluded}
	}

	switch info.TransferType {
	case domain.UserTransfer:
		// A transfer between members is a real flow for either member on their own.
		if view.IsAllUsers() {
			return Decision{false, ReasonUserTransferAll}
		}
		return Decision{true, ReasonUserTransferOwn}
	case domain.SelfTransfer:
		if info.ExcludedFromCalculations {
			return Decision{false, ReasonSelfTransfer}
		}
		return Decision{true, ReasonSelfTransferKept}
	default:
		return Decision{false, ReasonUnknownTransfer}
	}
}

// Included reports whether tx counts toward totals seen from view.
func Included(tx domain.Transaction, view domain.ViewContext) bool {
	return Decide(tx, view).Included
}

// Filter returns the transactions of txs that count toward totals seen from view.
func Filter(txs []domain.Transaction, view domain.ViewContext) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if Included(tx, view) {
			out = append(out, tx)
		}
	}
	return out
}

// Sum folds txs into totals for view. A member view only sees that member's
// transactions; amounts are summed as magnitudes by type.
func Sum(txs []domain.Transaction, view domain.ViewContext) domain.Totals {
	totals, _ := fold(txs, view, func(t domain.Transaction) (bool, error) {
		return Included(t, view), nil
	})
	return totals
}

func fold(txs []domain.Transaction, view domain.ViewContext, included func(domain.Transaction) (bool, error)) (domain.Totals, error) {
	totals := domain.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		if !view.IsAllUsers() && t.UserID != *view.SelectedUserID {
			continue
		}
		ok, err := included(t)
		if err != nil {
			return domain.Totals{}, err
		}
		if !ok {
			totals.ExcludedCount++
			continue
		}
		totals.IncludedCount++
		switch t.Type {
		case domain.Income:
			totals.Income = totals.Income.Add(t.Magnitude())
		case domain.Expense:
			totals.Expense = totals.Expense.Add(t.Magnitude())
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals, nil
}
