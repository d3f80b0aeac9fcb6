package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// The transfer annotation is encoded as the JSONB document read by the SQL
// inclusion predicate.
func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	m := models.Transaction{
		TransactionID:            d.TransactionID,
		Description:              d.Description,
		Category:                 d.Category,
		Amount:                   d.Amount,
		TransactionType:          string(d.Type),
		UserID:                   d.UserID,
		SourceID:                 d.SourceID,
		Labels:                   d.Labels,
		ExcludedFromCalculations: d.ExcludedFromCalculations,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
	if m.Labels == nil {
		m.Labels = []string{}
	}
	if !d.Date.IsZero() {
		date := d.Date
		m.TransactionDate = &date
	}
	if d.TransferInfo != nil {
		raw, err := json.Marshal(d.TransferInfo)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("failed to encode transfer info of %s: %w", d.TransactionID, err)
		}
		m.TransferInfo = raw
	}
	return m, nil
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	d := domain.Transaction{
		TransactionID:            m.TransactionID,
		Description:              m.Description,
		Category:                 m.Category,
		Amount:                   m.Amount,
		Type:                     domain.TransactionType(m.TransactionType),
		UserID:                   m.UserID,
		SourceID:                 m.SourceID,
		ExcludedFromCalculations: m.ExcludedFromCalculations,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
	if len(m.Labels) > 0 {
		d.Labels = m.Labels
	}
	if m.TransactionDate != nil {
		d.Date = *m.TransactionDate
	}
	if len(m.TransferInfo) > 0 && string(m.TransferInfo) != "null" {
		var info domain.TransferInfo
		if err := json.Unmarshal(m.TransferInfo, &info); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to decode transfer info of %s: %w", m.TransactionID, err)
		}
		d.TransferInfo = &info
	}
	return d, nil
}
