/**
 * @description
 * Deposit persistence: provider callback recording, the completed-deposit
 * balance credit, the per-user history fetch, and the filtered admin view.
 *
 * Status transitions are guarded in SQL (WHERE status = ...) so a late or
 * repeated provider callback can never replay a credit or walk a status
 * backwards.
 */

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
)

const depositColumns = `id, user_id, asset, amount::text, provider, provider_order_id, status, created_at`

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var deposit domain.Deposit
	var amountStr string
	err := row.Scan(
		&deposit.ID,
		&deposit.UserID,
		&deposit.Asset,
		&amountStr,
		&deposit.Provider,
		&deposit.ProviderOrderID,
		&deposit.Status,
		&deposit.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deposit.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, err
	}
	return &deposit, nil
}

// CreateDeposit inserts a new deposit record in pending state.
func (r *PostgresRepository) CreateDeposit(ctx context.Context, deposit *domain.Deposit) error {
	query := `
		INSERT INTO deposits (id, user_id, asset, amount, provider, provider_order_id, status)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		deposit.ID,
		deposit.UserID,
		deposit.Asset,
		deposit.Amount.String(),
		deposit.Provider,
		deposit.ProviderOrderID,
		deposit.Status,
	).Scan(&deposit.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrStatusConflict
	}
	return err
}

// FindDepositByProviderOrder looks up a deposit by its provider reference,
// used to keep provider callbacks idempotent.
func (r *PostgresRepository) FindDepositByProviderOrder(ctx context.Context, provider, providerOrderID string) (*domain.Deposit, error) {
	query := fmt.Sprintf(`SELECT %s FROM deposits WHERE provider = $1 AND provider_order_id = $2`, depositColumns)
	deposit, err := scanDeposit(r.db.QueryRow(ctx, query, provider, providerOrderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return deposit, nil
}

// CompleteDeposit marks a pending deposit completed and credits the user's
// balance in the same transaction. A deposit that is not pending returns
// ErrStatusConflict and leaves the balance untouched.
func (r *PostgresRepository) CompleteDeposit(ctx context.Context, depositID uuid.UUID) (*domain.Deposit, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updateQuery := fmt.Sprintf(`
		UPDATE deposits
		SET status = 'completed'
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, depositColumns)
	deposit, err := scanDeposit(tx.QueryRow(ctx, updateQuery, depositID))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either unknown id or a non-pending deposit; disambiguate.
			var exists bool
			if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM deposits WHERE id = $1)`, depositID).Scan(&exists); checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, ErrDepositNotFound
			}
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	creditQuery := `
		INSERT INTO balances (user_id, asset, amount)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (user_id, asset)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, creditQuery, deposit.UserID, deposit.Asset, deposit.Amount.String()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return deposit, nil
}

// UpdateDepositStatus advances a deposit between two explicit states.
func (r *PostgresRepository) UpdateDepositStatus(ctx context.Context, depositID uuid.UUID, fromStatus, toStatus string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE deposits SET status = $1 WHERE id = $2 AND status = $3`,
		toStatus, depositID, fromStatus,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

// ListDepositsByUser retrieves a user's deposits, newest first.
func (r *PostgresRepository) ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Deposit, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM deposits
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, depositColumns)
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, *deposit)
	}
	return deposits, rows.Err()
}

// buildDepositFilterQuery assembles the admin deposit query from the optional
// equality filters. Kept as a pure function so the arg wiring is testable.
func buildDepositFilterQuery(filter DepositFilter, limit int) (string, []interface{}) {
	query := `
		SELECT d.id, d.user_id, d.asset, d.amount::text, d.provider, d.provider_order_id, d.status, d.created_at, u.email
		FROM deposits d
		JOIN users u ON u.id = d.user_id
	`
	var args []interface{}
	argPos := 1
	clause := "WHERE"
	if filter.Status != nil {
		query += fmt.Sprintf(" %s d.status = $%d", clause, argPos)
		args = append(args, *filter.Status)
		argPos++
		clause = "AND"
	}
	if filter.Provider != nil {
		query += fmt.Sprintf(" %s d.provider = $%d", clause, argPos)
		args = append(args, *filter.Provider)
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY d.created_at DESC, d.id DESC LIMIT $%d", argPos)
	args = append(args, limit)
	return query, args
}

// ListDepositsFiltered is the bounded admin read over deposits joined with
// the owner's email. Free-text search is the caller's concern.
func (r *PostgresRepository) ListDepositsFiltered(ctx context.Context, filter DepositFilter, limit int) ([]domain.AdminDeposit, error) {
	query, args := buildDepositFilterQuery(filter, limit)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.AdminDeposit, 0, limit)
	for rows.Next() {
		var item domain.AdminDeposit
		var amountStr string
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Asset,
			&amountStr,
			&item.Provider,
			&item.ProviderOrderID,
			&item.Status,
			&item.CreatedAt,
			&item.UserEmail,
		); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// FailStalePendingDeposits marks deposits stuck pending past the cutoff as
// failed. Used by the sweeper job.
func (r *PostgresRepository) FailStalePendingDeposits(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE deposits SET status = 'failed' WHERE status = 'pending' AND created_at < $1`,
		olderThan,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
