package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/vaultra/account-service/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{err: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: "invalid_credentials"},
		{err: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{err: domain.ErrValidation, wantStatus: http.StatusUnprocessableEntity, wantCode: "validation_error"},
		{err: domain.ErrSelfTransfer, wantStatus: http.StatusUnprocessableEntity, wantCode: "validation_error"},
		{err: domain.ErrInsufficientFunds, wantStatus: http.StatusUnprocessableEntity, wantCode: "insufficient_funds"},
		{err: domain.ErrRecipientNotFound, wantStatus: http.StatusNotFound, wantCode: "recipient_not_found"},
		{err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{err: domain.ErrNotPendingReview, wantStatus: http.StatusConflict, wantCode: "not_pending_review"},
		{err: domain.ErrEmailTaken, wantStatus: http.StatusConflict, wantCode: "email_taken"},
		{err: domain.ErrRateLimited, wantStatus: http.StatusTooManyRequests, wantCode: "rate_limited"},
		{err: domain.ErrStoreUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "store_unavailable"},
		{err: errors.New("surprise"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode+"_"+tt.err.Error(), func(t *testing.T) {
			status, body := mapError(tt.err)
			if status != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, status)
			}
			if body.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, body.Code)
			}
		})
	}
}

func TestMapErrorUnwrapsWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("checking balance: %w", domain.ErrInsufficientFunds)
	status, body := mapError(wrapped)
	if status != http.StatusUnprocessableEntity || body.Code != "insufficient_funds" {
		t.Fatalf("wrapped sentinel not recognized: %d %q", status, body.Code)
	}
}

func TestMapErrorNeverLeaksInternals(t *testing.T) {
	_, body := mapError(errors.New("pq: connection reset by peer"))
	if body.Message != "internal error" {
		t.Fatalf("internal details leaked: %q", body.Message)
	}
}
