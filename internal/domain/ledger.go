/**
 * @description
 * Ledger domain models: per-user asset balances and the three payment record
 * types (deposits, withdrawals, internal transfers) that feed the unified
 * transaction history.
 *
 * Amounts are arbitrary-precision decimals (crypto assets routinely need more
 * than 2 fractional digits) and map to NUMERIC columns in the store.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is a user's holding of one asset. Amount never goes negative; the
// store enforces this under row locks, never in application memory.
type Balance struct {
	UserID    uuid.UUID       `json:"user_id"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Deposit status values. Transitions are forward only:
// pending -> completed | failed | rejected.
const (
	DepositStatusPending   = "pending"
	DepositStatusCompleted = "completed"
	DepositStatusFailed    = "failed"
	DepositStatusRejected  = "rejected"
)

// Deposit is an inbound payment recorded from a provider event. Immutable
// once completed.
type Deposit struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Asset           string          `json:"asset"`
	Amount          decimal.Decimal `json:"amount"`
	Provider        string          `json:"provider"`
	ProviderOrderID *string         `json:"provider_order_id,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AdminDeposit is a deposit joined with the owner's email for the admin view.
type AdminDeposit struct {
	Deposit
	UserEmail string `json:"user_email"`
}

// Withdrawal status values.
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
	WithdrawalStatusRejected   = "rejected"
)

// Withdrawal is a user-requested outbound payment. The requested amount is
// debited from the balance at creation time; failing or rejecting the
// withdrawal refunds it.
type Withdrawal struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// InternalTransfer is a value movement between two platform users. It is
// created and finalized in one transaction together with both balance
// mutations and is never mutated afterwards.
type InternalTransfer struct {
	ID         uuid.UUID       `json:"id"`
	FromUserID uuid.UUID       `json:"from_user_id"`
	ToUserID   uuid.UUID       `json:"to_user_id"`
	Asset      string          `json:"asset"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       *string         `json:"memo,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
