/**
 * @description
 * PostgreSQL implementation of the `Repository` interface: shared pool
 * wrapper, sentinel errors, and the user/balance queries. Payment, session
 * and KYC queries live in the sibling files of this package.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver and pool.
 * - github.com/shopspring/decimal: NUMERIC amounts are scanned as text and
 *   parsed, never as floats.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDepositNotFound      = errors.New("deposit not found")
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateToken       = errors.New("session token already exists")
	ErrSubmissionNotPending = errors.New("kyc submission is not pending")
	ErrStatusConflict       = errors.New("status transition conflict")
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateUser inserts a new user record.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, lower(btrim($2)), $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.Role).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, password_hash, role, created_at FROM users WHERE email = lower(btrim($1))`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListBalancesByUserID returns all non-zero balances for a user.
func (r *PostgresRepository) ListBalancesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error) {
	query := `
		SELECT user_id, asset, amount::text, updated_at
		FROM balances
		WHERE user_id = $1 AND amount <> 0
		ORDER BY asset
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []domain.Balance
	for rows.Next() {
		var balance domain.Balance
		var amountStr string
		if err := rows.Scan(&balance.UserID, &balance.Asset, &amountStr, &balance.UpdatedAt); err != nil {
			return nil, err
		}
		if balance.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}
