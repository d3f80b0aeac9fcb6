package inclusion_test

import (
	"fmt"
	"testing"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

// conformanceCase is one row of the matrix shared by the in-memory and SQL checks.
type conformanceCase struct {
	name string
	tx   domain.Transaction
	view domain.ViewContext
}

// matrix enumerates transfer type × override × flags × view.
func matrix() []conformanceCase {
	kinds := []string{"none", "not-transfer-info", string(domain.SelfTransfer), string(domain.UserTransfer), "bogus"}
	overrides := []*bool{nil, boolPtr(false), boolPtr(true)}
	views := map[string]domain.ViewContext{
		"all": domain.AllUsers(),
		"u1":  domain.ForUser("u1"),
		"u2":  domain.ForUser("u2"),
	}

	var cases []conformanceCase
	for _, kind := range kinds {
		for _, override := range overrides {
			for _, transferExcluded := range []bool{true, false} {
				for _, manual := range []bool{true, false} {
					for viewName, view := range views {
						tx := domain.Transaction{TransactionID: "tx", UserID: "u1", ExcludedFromCalculations: manual}
						switch kind {
						case "none":
						case "not-transfer-info":
							tx.TransferInfo = &domain.TransferInfo{IsTransfer: false, ExcludedFromCalculations: transferExcluded, UserOverride: override}
						default:
							tx.TransferInfo = &domain.TransferInfo{
								IsTransfer:               true,
								TransferID:               "tr",
								TransferType:             domain.TransferType(kind),
								ExcludedFromCalculations: transferExcluded,
								UserOverride:             override,
							}
						}
						name := fmt.Sprintf("%s/override=%v/transferExcluded=%v/manual=%v/view=%s",
							kind, fmtOverride(override), transferExcluded, manual, viewName)
						cases = append(cases, conformanceCase{name: name, tx: tx, view: view})
					}
				}
			}
		}
	}
	return cases
}

func fmtOverride(b *bool) string {
	if b == nil {
		return "undefined"
	}
	return fmt.Sprint(*b)
}

func TestPredicateAgreesWithInMemoryPolicy(t *testing.T) {
	cases := matrix()
	require.Len(t, cases, 5*3*2*2*3)

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sqlForm, err := inclusion.EvaluateSQLForm(c.tx, c.view)
			require.NoError(t, err)
			assert.Equal(t, inclusion.Included(c.tx, c.view), sqlForm)
		})
	}
}

func TestPredicateAgrees_MissingKeys(t *testing.T) {
	// Documents written by older passes may lack keys entirely.
	rows := []map[string]any{
		{},
		{"isTransfer": true},
		{"isTransfer": true, "transferType": "user"},
		{"isTransfer": true, "transferType": "self"},
		{"isTransfer": true, "transferType": "self", "userOverride": true},
		{"isTransfer": false, "transferType": "self"},
		{"isTransfer": nil, "transferType": "user"},
	}
	infos := []*domain.TransferInfo{
		{},
		{IsTransfer: true},
		{IsTransfer: true, TransferType: domain.UserTransfer},
		{IsTransfer: true, TransferType: domain.SelfTransfer},
		{IsTransfer: true, TransferType: domain.SelfTransfer, UserOverride: boolPtr(true)},
		{IsTransfer: false, TransferType: domain.SelfTransfer},
		{IsTransfer: false, TransferType: domain.UserTransfer},
	}

	for i, doc := range rows {
		for _, view := range []domain.ViewContext{domain.AllUsers(), domain.ForUser("u1")} {
			row := inclusion.Row{
				Columns:      map[string]any{inclusion.ColumnExcluded: false, inclusion.ColumnTransferInfo: doc},
				SelectedUser: view.SelectedUserID,
			}
			tx := domain.Transaction{TransferInfo: infos[i]}
			assert.Equal(t, inclusion.Included(tx, view), inclusion.Holds(inclusion.Predicate, row), "doc %v view %v", doc, view.IsAllUsers())
		}
	}
}

func TestPredicate_NullColumns(t *testing.T) {
	row := inclusion.Row{Columns: map[string]any{}}
	assert.True(t, inclusion.Holds(inclusion.Predicate, row), "row with NULL flag and NULL transfer_info is a plain transaction")
}

func TestSumSQLFormAgreesWithSum(t *testing.T) {
	var txs []domain.Transaction
	for i, c := range matrix() {
		tx := c.tx
		tx.TransactionID = fmt.Sprintf("tx-%d", i)
		tx.UserID = []string{"u1", "u2"}[i%2]
		tx.Type = []domain.TransactionType{domain.Income, domain.Expense}[(i/2)%2]
		tx.Amount = decimal.NewFromInt(int64(i + 1))
		txs = append(txs, tx)
	}

	for _, view := range []domain.ViewContext{domain.AllUsers(), domain.ForUser("u1"), domain.ForUser("u2")} {
		got, err := inclusion.SumSQLForm(txs, view)
		require.NoError(t, err)
		want := inclusion.Sum(txs, view)
		assert.True(t, want.Income.Equal(got.Income))
		assert.True(t, want.Expense.Equal(got.Expense))
		assert.Equal(t, want.IncludedCount, got.IncludedCount)
		assert.Equal(t, want.ExcludedCount, got.ExcludedCount)
	}
}

func TestCastBool_BooleanInputSpellings(t *testing.T) {
	tests := []struct {
		raw   any
		want  bool
		valid bool
	}{
		{"true", true, true},
		{"t", true, true},
		{" TRUE ", true, true},
		{"yes", true, true},
		{"y", true, true},
		{"on", true, true},
		{"1", true, true},
		{float64(1), true, true},
		{true, true, true},
		{"false", false, true},
		{"F", false, true},
		{"no", false, true},
		{"n", false, true},
		{"off", false, true},
		{"of", false, true},
		{"0", false, true},
		{float64(0), false, true},
		{"o", false, false},
		{"truth", false, false},
		{"2", false, false},
		{"", false, false},
		{nil, false, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.raw), func(t *testing.T) {
			row := inclusion.Row{Columns: map[string]any{"doc": map[string]any{"flag": tt.raw}}}
			got, valid := inclusion.CastBool(inclusion.JSONField("doc", "flag")).Eval(row)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredicate_NonCanonicalOverrideSpelling(t *testing.T) {
	row := inclusion.Row{Columns: map[string]any{
		inclusion.ColumnTransferInfo: map[string]any{
			"isTransfer":               "t",
			"transferType":             "user",
			"userOverride":             "yes",
			"excludedFromCalculations": "off",
		},
	}}

	assert.True(t, inclusion.Holds(inclusion.Predicate, row), "override spelled yes with exclusion off keeps the leg")
}
