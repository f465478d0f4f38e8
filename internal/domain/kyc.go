/**
 * @description
 * KYC (identity verification) domain models. Each user has at most one
 * current submission; resubmitting overwrites the document set and resets the
 * review fields. Review decisions are only valid while the submission is
 * pending.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// KYC statuses. Transitions: none -> pending (submit),
// pending -> verified | rejected (review). Resubmission from a terminal
// state returns to pending with a fresh document set.
const (
	KycStatusNone     = "none"
	KycStatusPending  = "pending"
	KycStatusVerified = "verified"
	KycStatusRejected = "rejected"
)

// KycDocument is one uploaded identity document reference. FileKey points at
// the object-storage key; this core never touches file contents.
type KycDocument struct {
	Type    string `json:"type"`
	FileKey string `json:"file_key"`
}

// KycSubmission is a user's current verification state.
type KycSubmission struct {
	UserID      uuid.UUID     `json:"user_id"`
	Documents   []KycDocument `json:"documents"`
	Status      string        `json:"status"`
	ReviewNote  *string       `json:"review_note,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID    `json:"reviewed_by,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
}
