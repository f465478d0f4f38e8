/**
 * @description
 * KYC submission persistence. One row per user: submitting upserts the
 * document set (jsonb) and resets the review fields; the review update is
 * guarded on status = 'pending' so a decision can never be applied twice.
 */

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vaultra/account-service/internal/domain"
)

func scanKycSubmission(row pgx.Row) (*domain.KycSubmission, error) {
	var submission domain.KycSubmission
	var documentsRaw []byte
	err := row.Scan(
		&submission.UserID,
		&documentsRaw,
		&submission.Status,
		&submission.ReviewNote,
		&submission.ReviewedAt,
		&submission.ReviewedBy,
		&submission.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(documentsRaw, &submission.Documents); err != nil {
		return nil, err
	}
	return &submission, nil
}

const kycColumns = `user_id, documents, status, review_note, reviewed_at, reviewed_by, submitted_at`

// UpsertKycSubmission writes the user's current submission, overwriting any
// prior document set and clearing earlier review fields.
func (r *PostgresRepository) UpsertKycSubmission(ctx context.Context, submission *domain.KycSubmission) error {
	documentsRaw, err := json.Marshal(submission.Documents)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO kyc_submissions (user_id, documents, status, submitted_at)
		VALUES ($1, $2, 'pending', NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			documents = EXCLUDED.documents,
			status = 'pending',
			review_note = NULL,
			reviewed_at = NULL,
			reviewed_by = NULL,
			submitted_at = NOW()
		RETURNING status, submitted_at
	`
	return r.db.QueryRow(ctx, query, submission.UserID, documentsRaw).Scan(&submission.Status, &submission.SubmittedAt)
}

// GetKycSubmission returns the user's current submission. A user who never
// submitted gets a synthetic record in status "none".
func (r *PostgresRepository) GetKycSubmission(ctx context.Context, userID uuid.UUID) (*domain.KycSubmission, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_submissions WHERE user_id = $1`
	submission, err := scanKycSubmission(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return &domain.KycSubmission{UserID: userID, Status: domain.KycStatusNone}, nil
		}
		return nil, err
	}
	return submission, nil
}

// ReviewKycSubmission records an admin decision on a pending submission.
// Returns ErrSubmissionNotPending when the submission is absent or already
// decided.
func (r *PostgresRepository) ReviewKycSubmission(ctx context.Context, userID uuid.UUID, status string, reviewNote *string, reviewedBy uuid.UUID, reviewedAt time.Time) (*domain.KycSubmission, error) {
	query := `
		UPDATE kyc_submissions
		SET status = $1, review_note = $2, reviewed_by = $3, reviewed_at = $4
		WHERE user_id = $5 AND status = 'pending'
		RETURNING ` + kycColumns
	submission, err := scanKycSubmission(r.db.QueryRow(ctx, query, status, reviewNote, reviewedBy, reviewedAt, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSubmissionNotPending
		}
		return nil, err
	}
	return submission, nil
}

// ListPendingKycSubmissions returns pending submissions, oldest first, so
// reviewers work the queue in arrival order.
func (r *PostgresRepository) ListPendingKycSubmissions(ctx context.Context, limit int) ([]domain.KycSubmission, error) {
	query := `
		SELECT ` + kycColumns + `
		FROM kyc_submissions
		WHERE status = 'pending'
		ORDER BY submitted_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.KycSubmission
	for rows.Next() {
		submission, err := scanKycSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *submission)
	}
	return submissions, rows.Err()
}
