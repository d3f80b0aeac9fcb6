package domain

import "time"

// AuditFields records who created and last rewrote a transaction and when.
// Imports set CreatedBy; every snapshot save refreshes LastUpdatedAt.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
