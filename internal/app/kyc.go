/**
 * @description
 * KYC workflow: submission and admin review over the per-user state machine
 * none -> pending -> {verified, rejected}. Resubmission from any terminal
 * state is allowed and resets the submission to pending with a fresh
 * document set. Review decisions publish a fire-and-forget event for the
 * notification flow; the core does not depend on its delivery.
 */

package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vaultra/account-service/internal/domain"
	"github.com/vaultra/account-service/internal/store"
)

// SubmitKyc records the user's document set and moves the submission to
// pending, overwriting any prior submission.
func (s *Service) SubmitKyc(ctx context.Context, userID uuid.UUID, documents []domain.KycDocument) (*domain.KycSubmission, error) {
	if len(documents) == 0 {
		return nil, domain.ErrValidation
	}
	for _, doc := range documents {
		if strings.TrimSpace(doc.Type) == "" || strings.TrimSpace(doc.FileKey) == "" {
			return nil, domain.ErrValidation
		}
	}

	submission := &domain.KycSubmission{
		UserID:      userID,
		Documents:   documents,
		Status:      domain.KycStatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.repo.UpsertKycSubmission(ctx, submission); err != nil {
		return nil, storeFailure("kyc.submit", err)
	}
	return submission, nil
}

// GetKycStatus returns the caller's current submission ("none" if never
// submitted).
func (s *Service) GetKycStatus(ctx context.Context, userID uuid.UUID) (*domain.KycSubmission, error) {
	submission, err := s.repo.GetKycSubmission(ctx, userID)
	if err != nil {
		return nil, storeFailure("kyc.get", err)
	}
	return submission, nil
}

// ReviewKyc records an admin decision on a pending submission. Only pending
// submissions are reviewable; a second decision on the same submission fails.
func (s *Service) ReviewKyc(ctx context.Context, adminID, userID uuid.UUID, status string, reviewNote *string) (*domain.KycSubmission, error) {
	if status != domain.KycStatusVerified && status != domain.KycStatusRejected {
		return nil, domain.ErrValidation
	}

	reviewedAt := time.Now().UTC()
	submission, err := s.repo.ReviewKycSubmission(ctx, userID, status, reviewNote, adminID, reviewedAt)
	if err != nil {
		if errors.Is(err, store.ErrSubmissionNotPending) {
			return nil, domain.ErrNotPendingReview
		}
		return nil, storeFailure("kyc.review", err)
	}

	s.publishEvent(ctx, domain.EventKycReviewed, domain.KycReviewedEvent{
		UserID:     userID,
		Status:     status,
		ReviewNote: reviewNote,
		ReviewedBy: adminID,
		ReviewedAt: reviewedAt,
	})
	return submission, nil
}

// ListPendingKyc returns the review queue, oldest submissions first.
func (s *Service) ListPendingKyc(ctx context.Context, limit int) ([]domain.KycSubmission, error) {
	limit = clampLimit(limit, 100, 500)
	submissions, err := s.repo.ListPendingKycSubmissions(ctx, limit)
	if err != nil {
		return nil, storeFailure("kyc.list_pending", err)
	}
	return submissions, nil
}
