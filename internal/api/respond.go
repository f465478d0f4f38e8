/**
 * @description
 * Response helpers: JSON encoding and the mapping from the service error
 * taxonomy to stable {code, message} bodies and HTTP statuses. Callers get a
 * fixed code per error class and nothing about internals.
 */

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vaultra/account-service/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiErrorMapping pairs a sentinel error with its wire code and status.
type apiErrorMapping struct {
	err    error
	code   string
	status int
}

var errorMappings = []apiErrorMapping{
	{domain.ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, "invalid_credentials", http.StatusUnauthorized},
	{domain.ErrForbidden, "forbidden", http.StatusForbidden},
	{domain.ErrSelfTransfer, "validation_error", http.StatusUnprocessableEntity},
	{domain.ErrValidation, "validation_error", http.StatusUnprocessableEntity},
	{domain.ErrInsufficientFunds, "insufficient_funds", http.StatusUnprocessableEntity},
	{domain.ErrRecipientNotFound, "recipient_not_found", http.StatusNotFound},
	{domain.ErrNotFound, "not_found", http.StatusNotFound},
	{domain.ErrNotPendingReview, "not_pending_review", http.StatusConflict},
	{domain.ErrEmailTaken, "email_taken", http.StatusConflict},
	{domain.ErrRateLimited, "rate_limited", http.StatusTooManyRequests},
	{domain.ErrStoreUnavailable, "store_unavailable", http.StatusServiceUnavailable},
}

func mapError(err error) (int, errorResponse) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.err) {
			return mapping.status, errorResponse{Code: mapping.code, Message: mapping.err.Error()}
		}
	}
	return http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: "internal error"}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := mapError(err)
	writeJSON(w, status, body)
}
