package inclusion_test

import (
	"strings"
	"testing"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func transferLeg(user string, kind domain.TransferType) domain.Transaction {
	return domain.Transaction{
		TransactionID: "leg-" + user,
		UserID:        user,
		TransferInfo: &domain.TransferInfo{
			IsTransfer:               true,
			TransferID:               "tr-1",
			TransferType:             kind,
			ExcludedFromCalculations: true,
			UserOverride:             boolPtr(false),
		},
	}
}

func TestDecide(t *testing.T) {
	overridden := func(tx domain.Transaction, excluded bool) domain.Transaction {
		tx.TransferInfo.UserOverride = boolPtr(true)
		tx.TransferInfo.ExcludedFromCalculations = excluded
		return tx
	}
	manual := domain.Transaction{ExcludedFromCalculations: true, TransferInfo: transferLeg("u1", domain.UserTransfer).TransferInfo}

	tests := []struct {
		name   string
		tx     domain.Transaction
		view   domain.ViewContext
		want   bool
		reason inclusion.Reason
	}{
		{"plain transaction", domain.Transaction{}, domain.AllUsers(), true, inclusion.ReasonNotTransfer},
		{"manual exclusion wins over everything", manual, domain.ForUser("u1"), false, inclusion.ReasonManuallyExcluded},
		{"self transfer household view", transferLeg("u1", domain.SelfTransfer), domain.AllUsers(), false, inclusion.ReasonSelfTransfer},
		{"self transfer member view", transferLeg("u1", domain.SelfTransfer), domain.ForUser("u1"), false, inclusion.ReasonSelfTransfer},
		{"user transfer household view", transferLeg("u1", domain.UserTransfer), domain.AllUsers(), false, inclusion.ReasonUserTransferAll},
		{"user transfer member view", transferLeg("u1", domain.UserTransfer), domain.ForUser("u1"), true, inclusion.ReasonUserTransferOwn},
		{"user transfer other member view", transferLeg("u1", domain.UserTransfer), domain.ForUser("u2"), true, inclusion.ReasonUserTransferOwn},
		{"override include", overridden(transferLeg("u1", domain.SelfTransfer), false), domain.AllUsers(), true, inclusion.ReasonOverrideIncluded},
		{"override exclude beats member view", overridden(transferLeg("u1", domain.UserTransfer), true), domain.ForUser("u1"), false, inclusion.ReasonOverrideExcluded},
		{"unknown type", transferLeg("u1", "loan"), domain.ForUser("u1"), false, inclusion.ReasonUnknownTransfer},
		{"missing type", transferLeg("u1", ""), domain.AllUsers(), false, inclusion.ReasonUnknownTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inclusion.Decide(tt.tx, tt.view)
			assert.Equal(t, tt.want, got.Included)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestFilter(t *testing.T) {
	txs := []domain.Transaction{
		{TransactionID: "plain"},
		transferLeg("u1", domain.UserTransfer),
		transferLeg("u1", domain.SelfTransfer),
	}

	assert.Len(t, inclusion.Filter(txs, domain.AllUsers()), 1)
	assert.Len(t, inclusion.Filter(txs, domain.ForUser("u1")), 2)
}

func TestSQL_Rendering(t *testing.T) {
	got := inclusion.SQL("t", 2)

	want := "CASE" +
		" WHEN COALESCE(t.excluded_from_calculations, FALSE) THEN FALSE" +
		" WHEN NOT (COALESCE((t.transfer_info->>'isTransfer')::boolean, FALSE)) THEN TRUE" +
		" WHEN COALESCE((t.transfer_info->>'userOverride')::boolean, FALSE) THEN NOT (COALESCE((t.transfer_info->>'excludedFromCalculations')::boolean, FALSE))" +
		" WHEN t.transfer_info->>'transferType' = 'user' THEN NOT ($2::text IS NULL)" +
		" WHEN t.transfer_info->>'transferType' = 'self' THEN NOT (COALESCE((t.transfer_info->>'excludedFromCalculations')::boolean, FALSE))" +
		" ELSE FALSE END"
	assert.Equal(t, want, got)
}

func TestSQL_NoAlias(t *testing.T) {
	got := inclusion.SQL("", 1)

	assert.True(t, strings.HasPrefix(got, "CASE WHEN COALESCE(excluded_from_calculations, FALSE)"))
	assert.Contains(t, got, "$1::text IS NULL")
	assert.NotContains(t, got, ".transfer_info")
}

func TestSum(t *testing.T) {
	txs := []domain.Transaction{
		{TransactionID: "salary", UserID: "u1", Type: domain.Income, Amount: decimal.NewFromInt(1000)},
		{TransactionID: "refund", UserID: "u2", Type: domain.Income, Amount: decimal.RequireFromString("-20.5")},
		{TransactionID: "odd", UserID: "u2", Type: "fee", Amount: decimal.NewFromInt(3)},
		withAmount(transferLeg("u1", domain.UserTransfer), domain.Expense, 400),
	}

	all := inclusion.Sum(txs, domain.AllUsers())
	assert.True(t, all.Income.Equal(decimal.RequireFromString("1020.5")))
	assert.True(t, all.Expense.IsZero())
	assert.Equal(t, 3, all.IncludedCount, "unknown types count as included but add to neither side")
	assert.Equal(t, 1, all.ExcludedCount)

	u1 := inclusion.Sum(txs, domain.ForUser("u1"))
	assert.True(t, u1.Expense.Equal(decimal.NewFromInt(400)))
	assert.True(t, u1.Net.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 2, u1.IncludedCount)
	assert.Zero(t, u1.ExcludedCount)

	empty := inclusion.Sum(nil, domain.AllUsers())
	assert.True(t, empty.Net.IsZero())
}

func withAmount(tx domain.Transaction, typ domain.TransactionType, amount int64) domain.Transaction {
	tx.Type = typ
	tx.Amount = decimal.NewFromInt(amount)
	return tx
}
