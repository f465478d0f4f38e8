package domain

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys for events published to the topic exchange. Consumers
// (mailer, compliance archive) are fire-and-forget collaborators.
const (
	EventKycReviewed             = "kyc.reviewed"
	EventWithdrawalStatusChanged = "withdrawal.status_changed"
)

// KycReviewedEvent is published after an admin review decision.
type KycReviewedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	ReviewNote *string   `json:"review_note,omitempty"`
	ReviewedBy uuid.UUID `json:"reviewed_by"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// WithdrawalStatusChangedEvent is published when a withdrawal advances.
type WithdrawalStatusChangedEvent struct {
	WithdrawalID uuid.UUID `json:"withdrawal_id"`
	UserID       uuid.UUID `json:"user_id"`
	Status       string    `json:"status"`
	ChangedAt    time.Time `json:"changed_at"`
}
