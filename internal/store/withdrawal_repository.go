/**
 * @description
 * Withdrawal persistence. Creating a withdrawal debits the requested amount
 * from the user's balance under a FOR UPDATE lock in the same transaction, so
 * a withdrawal can never overdraw against a stale balance read. Failing or
 * rejecting a withdrawal refunds the debit atomically with the status change.
 */

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
)

const withdrawalColumns = `id, user_id, asset, amount::text, address, status, created_at`

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var withdrawal domain.Withdrawal
	var amountStr string
	err := row.Scan(
		&withdrawal.ID,
		&withdrawal.UserID,
		&withdrawal.Asset,
		&amountStr,
		&withdrawal.Address,
		&withdrawal.Status,
		&withdrawal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if withdrawal.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// CreateWithdrawal debits the balance and inserts the withdrawal row in one
// transaction. Returns ErrInsufficientFunds without any visible write when
// the locked balance does not cover the amount.
func (r *PostgresRepository) CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var balanceStr string
	err = tx.QueryRow(ctx,
		`SELECT amount::text FROM balances WHERE user_id = $1 AND asset = $2 FOR UPDATE`,
		withdrawal.UserID, withdrawal.Asset,
	).Scan(&balanceStr)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrInsufficientFunds
		}
		return err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return err
	}
	if balance.LessThan(withdrawal.Amount) {
		return ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE balances SET amount = amount - $1::numeric, updated_at = NOW() WHERE user_id = $2 AND asset = $3`,
		withdrawal.Amount.String(), withdrawal.UserID, withdrawal.Asset,
	); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO withdrawals (id, user_id, asset, amount, address, status)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insertQuery,
		withdrawal.ID,
		withdrawal.UserID,
		withdrawal.Asset,
		withdrawal.Amount.String(),
		withdrawal.Address,
		withdrawal.Status,
	).Scan(&withdrawal.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListWithdrawalsByUser retrieves a user's withdrawals, newest first.
func (r *PostgresRepository) ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Withdrawal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, withdrawalColumns)
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		withdrawal, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *withdrawal)
	}
	return withdrawals, rows.Err()
}

// AdvanceWithdrawalStatus moves a withdrawal from one explicit status to
// another; with refund set, the original amount is credited back to the
// user's balance in the same transaction.
func (r *PostgresRepository) AdvanceWithdrawalStatus(ctx context.Context, withdrawalID uuid.UUID, fromStatus, toStatus string, refund bool) (*domain.Withdrawal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updateQuery := fmt.Sprintf(`
		UPDATE withdrawals
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING %s
	`, withdrawalColumns)
	withdrawal, err := scanWithdrawal(tx.QueryRow(ctx, updateQuery, toStatus, withdrawalID, fromStatus))
	if err != nil {
		if err == pgx.ErrNoRows {
			var exists bool
			if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM withdrawals WHERE id = $1)`, withdrawalID).Scan(&exists); checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, ErrWithdrawalNotFound
			}
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	if refund {
		refundQuery := `
			INSERT INTO balances (user_id, asset, amount)
			VALUES ($1, $2, $3::numeric)
			ON CONFLICT (user_id, asset)
			DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = NOW()
		`
		if _, err := tx.Exec(ctx, refundQuery, withdrawal.UserID, withdrawal.Asset, withdrawal.Amount.String()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return withdrawal, nil
}
