package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/apperrors"
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/SscSPs/transfer_reconciler/internal/core/inclusion"
	portsrepo "github.com/SscSPs/transfer_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/transfer_reconciler/internal/models"
	"github.com/SscSPs/transfer_reconciler/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, transaction_date, description, category, amount, transaction_type,
	user_id, source_id, labels, excluded_from_calculations, transfer_info,
	created_at, created_by, last_updated_at, last_updated_by`

const upsertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (transaction_id) DO UPDATE SET
		transaction_date = EXCLUDED.transaction_date,
		description = EXCLUDED.description,
		category = EXCLUDED.category,
		amount = EXCLUDED.amount,
		transaction_type = EXCLUDED.transaction_type,
		user_id = EXCLUDED.user_id,
		source_id = EXCLUDED.source_id,
		labels = EXCLUDED.labels,
		excluded_from_calculations = EXCLUDED.excluded_from_calculations,
		transfer_info = EXCLUDED.transfer_info,
		last_updated_at = EXCLUDED.last_updated_at,
		last_updated_by = EXCLUDED.last_updated_by;
`

// PgxTransactionRepository stores the transaction snapshot in PostgreSQL.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)
	_ portsrepo.TotalsReader                = (*PgxTransactionRepository)(nil)
)

// LoadAll returns every transaction ordered by date, then id. Rows without a date sort last.
func (r *PgxTransactionRepository) LoadAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_date ASC NULLS LAST, transaction_id ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.TransactionDate,
			&m.Description,
			&m.Category,
			&m.Amount,
			&m.TransactionType,
			&m.UserID,
			&m.SourceID,
			&m.Labels,
			&m.ExcludedFromCalculations,
			&m.TransferInfo,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		tx, err := mapping.ToDomainTransaction(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to map transaction row", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return txs, nil
}

// SaveAll replaces the stored snapshot with txs inside one database transaction:
// every row is upserted, then rows whose id is not in txs are deleted.
func (r *PgxTransactionRepository) SaveAll(ctx context.Context, txs []domain.Transaction) error {
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(txs))

	for _, t := range txs {
		m, err := mapping.ToModelTransaction(t)
		if err != nil {
			return apperrors.NewAppError(500, "failed to map transaction "+t.TransactionID, err)
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.LastUpdatedAt = now

		batch.Queue(upsertTransactionQuery,
			m.TransactionID,
			m.TransactionDate,
			m.Description,
			m.Category,
			m.Amount,
			m.TransactionType,
			m.UserID,
			m.SourceID,
			m.Labels,
			m.ExcludedFromCalculations,
			m.TransferInfo,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		ids = append(ids, m.TransactionID)
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if batch.Len() > 0 {
			br := tx.SendBatch(ctx, batch)
			// Close reports the first failed statement of the batch.
			if err := br.Close(); err != nil {
				return apperrors.NewAppError(500, "failed to upsert transactions", err)
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id <> ALL($1);`, ids); err != nil {
			return apperrors.NewAppError(500, "failed to delete removed transactions", err)
		}
		return nil
	})
}

// SumTotals aggregates included amounts for view with the SQL inclusion predicate.
// The selected user both restricts the rows and takes part in the predicate.
func (r *PgxTransactionRepository) SumTotals(ctx context.Context, view domain.ViewContext) (domain.Totals, error) {
	predicate := inclusion.SQL("t", 1)
	query := `
		SELECT
			COALESCE(SUM(ABS(t.amount)) FILTER (WHERE t.transaction_type = 'income' AND (` + predicate + `)), 0),
			COALESCE(SUM(ABS(t.amount)) FILTER (WHERE t.transaction_type = 'expense' AND (` + predicate + `)), 0),
			COUNT(*) FILTER (WHERE ` + predicate + `),
			COUNT(*) FILTER (WHERE NOT (` + predicate + `))
		FROM transactions t
		WHERE ($1::text IS NULL OR t.user_id = $1::text);
	`

	var totals domain.Totals
	var includedCnt, excludedCnt int64
	err := r.Pool.QueryRow(ctx, query, view.SelectedUserID).Scan(&totals.Income, &totals.Expense, &includedCnt, &excludedCnt)
	if err != nil {
		return domain.Totals{}, apperrors.NewAppError(500, "failed to aggregate totals", err)
	}
	totals.IncludedCount = int(includedCnt)
	totals.ExcludedCount = int(excludedCnt)
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals, nil
}
