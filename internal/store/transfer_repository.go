/**
 * @description
 * Internal transfer persistence. ExecuteTransfer is the one place where value
 * moves between two users: the debit, the credit and the transfer row commit
 * together or not at all. Balance rows are locked FOR UPDATE in primary-key
 * order so two concurrent transfers touching the same pair cannot deadlock,
 * and the sufficiency check always runs against the locked row, never a
 * stale read.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
)

// ExecuteTransfer debits the sender, credits the recipient and inserts the
// transfer record in a single transaction. Returns ErrInsufficientFunds when
// the sender's locked balance does not cover the amount.
func (r *PostgresRepository) ExecuteTransfer(ctx context.Context, transfer *domain.InternalTransfer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock both balance rows in primary-key order. The recipient row may not
	// exist yet; the credit upsert below creates it.
	lockQuery := `
		SELECT user_id, amount::text
		FROM balances
		WHERE asset = $1 AND user_id = ANY($2)
		ORDER BY user_id
		FOR UPDATE
	`
	rows, err := tx.Query(ctx, lockQuery, transfer.Asset, []uuid.UUID{transfer.FromUserID, transfer.ToUserID})
	if err != nil {
		return err
	}

	senderBalance := decimal.Zero
	senderRowFound := false
	for rows.Next() {
		var userID uuid.UUID
		var amountStr string
		if err := rows.Scan(&userID, &amountStr); err != nil {
			rows.Close()
			return err
		}
		if userID == transfer.FromUserID {
			senderRowFound = true
			if senderBalance, err = decimal.NewFromString(amountStr); err != nil {
				rows.Close()
				return err
			}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if !senderRowFound || senderBalance.LessThan(transfer.Amount) {
		return ErrInsufficientFunds
	}

	debitQuery := `
		UPDATE balances
		SET amount = amount - $1::numeric, updated_at = NOW()
		WHERE user_id = $2 AND asset = $3
	`
	if _, err := tx.Exec(ctx, debitQuery, transfer.Amount.String(), transfer.FromUserID, transfer.Asset); err != nil {
		return err
	}

	creditQuery := `
		INSERT INTO balances (user_id, asset, amount)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (user_id, asset)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, creditQuery, transfer.ToUserID, transfer.Asset, transfer.Amount.String()); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO internal_transfers (id, from_user_id, to_user_id, asset, amount, memo)
		VALUES ($1, $2, $3, $4, $5::numeric, $6)
		RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insertQuery,
		transfer.ID,
		transfer.FromUserID,
		transfer.ToUserID,
		transfer.Asset,
		transfer.Amount.String(),
		transfer.Memo,
	).Scan(&transfer.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListTransfersByUser retrieves transfers where the user is either party,
// newest first with a deterministic id tie-break.
func (r *PostgresRepository) ListTransfersByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.InternalTransfer, error) {
	query := `
		SELECT id, from_user_id, to_user_id, asset, amount::text, memo, created_at
		FROM internal_transfers
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.InternalTransfer
	for rows.Next() {
		var transfer domain.InternalTransfer
		var amountStr string
		if err := rows.Scan(
			&transfer.ID,
			&transfer.FromUserID,
			&transfer.ToUserID,
			&transfer.Asset,
			&amountStr,
			&transfer.Memo,
			&transfer.CreatedAt,
		); err != nil {
			return nil, err
		}
		if transfer.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}
