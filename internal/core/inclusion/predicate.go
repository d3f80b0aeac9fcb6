package inclusion

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
)

// Column names of the transactions table read by the predicate.
const (
	ColumnExcluded     = "excluded_from_calculations"
	ColumnTransferInfo = "transfer_info"
)

// Keys of the transfer_info document, matching the JSON tags of domain.TransferInfo.
const (
	keyIsTransfer   = "isTransfer"
	keyTransferType = "transferType"
	keyUserOverride = "userOverride"
	keyExcluded     = "excludedFromCalculations"
)

var (
	manuallyExcluded = Coalesce(BoolColumn(ColumnExcluded), false)
	isTransfer       = Coalesce(CastBool(JSONField(ColumnTransferInfo, keyIsTransfer)), false)
	hasUserOverride  = Coalesce(CastBool(JSONField(ColumnTransferInfo, keyUserOverride)), false)
	transferExcluded = Coalesce(CastBool(JSONField(ColumnTransferInfo, keyExcluded)), false)
	transferType     = JSONField(ColumnTransferInfo, keyTransferType)
)

// Predicate is the SQL form of Decide. Branches are listed in the same order.
var Predicate = Case(Lit(false),
	When{Cond: manuallyExcluded, Then: Lit(false)},
	When{Cond: Not(isTransfer), Then: Lit(true)},
	When{Cond: hasUserOverride, Then: Not(transferExcluded)},
	When{Cond: Equals(transferType, string(domain.UserTransfer)), Then: Not(SelectedUserIsNull())},
	When{Cond: Equals(transferType, string(domain.SelfTransfer)), Then: Not(transferExcluded)},
)

// SQL renders Predicate for a table alias, with the selected user bound at the
// 1-based parameter position userParam. The bound value is NULL for the
// household-wide view.
func SQL(alias string, userParam int) string {
	return Render(Predicate, Binding{Alias: alias, UserParam: userParam})
}

// RowFromTransaction builds the row PostgreSQL would hold for tx, with the
// transfer annotation encoded and decoded as JSONB.
func RowFromTransaction(tx domain.Transaction, view domain.ViewContext) (Row, error) {
	cols := map[string]any{ColumnExcluded: tx.ExcludedFromCalculations}
	if tx.TransferInfo != nil {
		raw, err := json.Marshal(tx.TransferInfo)
		if err != nil {
			return Row{}, fmt.Errorf("failed to encode transfer info: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Row{}, fmt.Errorf("failed to decode transfer info: %w", err)
		}
		cols[ColumnTransferInfo] = doc
	}
	return Row{Columns: cols, SelectedUser: view.SelectedUserID}, nil
}

// EvaluateSQLForm evaluates Predicate against tx as stored.
func EvaluateSQLForm(tx domain.Transaction, view domain.ViewContext) (bool, error) {
	row, err := RowFromTransaction(tx, view)
	if err != nil {
		return false, err
	}
	return Holds(Predicate, row), nil
}

// SumSQLForm folds txs like Sum but decides inclusion by evaluating Predicate
// against each transaction as stored.
func SumSQLForm(txs []domain.Transaction, view domain.ViewContext) (domain.Totals, error) {
	return fold(txs, view, func(t domain.Transaction) (bool, error) {
		ok, err := EvaluateSQLForm(t, view)
		if err != nil {
			return false, fmt.Errorf("failed to evaluate predicate for %s: %w", t.TransactionID, err)
		}
		return ok, nil
	})
}
