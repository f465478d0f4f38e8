/**
 * @description
 * UnifiedTransaction is the normalized read model merging deposits,
 * withdrawals and internal transfers into one per-user history feed.
 *
 * The ID is a synthetic composite ("deposit:<id>", "withdrawal:<id>",
 * "internal:<id>") so records from different tables never collide and the
 * history ordering has a deterministic tie-breaker.
 */
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unified transaction types.
const (
	TxTypeDeposit          = "deposit"
	TxTypeWithdrawal       = "withdrawal"
	TxTypeInternalSent     = "internal_sent"
	TxTypeInternalReceived = "internal_received"
)

// Transaction directions relative to the owning user.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// UnifiedTransaction is one row of a user's consolidated history.
type UnifiedTransaction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Direction string          `json:"direction"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Memo      *string         `json:"memo,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
