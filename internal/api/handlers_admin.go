/**
 * @description
 * Admin-only handlers: the filtered deposit query screen, the KYC review
 * queue and withdrawal status management. All routes here sit behind both
 * the session middleware and the RequireAdmin guard.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vaultra/account-service/internal/domain"
	"github.com/vaultra/account-service/internal/store"
)

// filterValue collapses the "all" sentinel and the empty string to nil so
// the store layer only sees real filter values.
func filterValue(raw string) *string {
	if raw == "" || raw == "all" {
		return nil
	}
	return &raw
}

// AdminListDepositsHandler returns deposits across all users, optionally
// filtered by status and provider.
func (h *AccountHandlers) AdminListDepositsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.DepositFilter{
		Status:   filterValue(query.Get("status")),
		Provider: filterValue(query.Get("provider")),
	}

	deposits, err := h.service.ListDeposits(r.Context(), filter, queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deposits)
}

// AdminListPendingKycHandler returns the review queue, oldest first.
func (h *AccountHandlers) AdminListPendingKycHandler(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.service.ListPendingKyc(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

type reviewKycRequest struct {
	Status     string  `json:"status" validate:"required,oneof=verified rejected"`
	ReviewNote *string `json:"review_note,omitempty"`
}

// AdminReviewKycHandler approves or rejects a pending submission.
func (h *AccountHandlers) AdminReviewKycHandler(w http.ResponseWriter, r *http.Request) {
	admin, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	var req reviewKycRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.service.ReviewKyc(r.Context(), admin.ID, userID, req.Status, req.ReviewNote)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submission)
}

type rejectDepositRequest struct {
	Status string `json:"status" validate:"required,oneof=failed rejected"`
}

// AdminRejectDepositHandler closes out a pending deposit that will never
// arrive. No balance effect.
func (h *AccountHandlers) AdminRejectDepositHandler(w http.ResponseWriter, r *http.Request) {
	depositID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	var req rejectDepositRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.RejectDeposit(r.Context(), depositID, req.Status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type advanceWithdrawalRequest struct {
	FromStatus string `json:"from_status" validate:"required"`
	ToStatus   string `json:"to_status" validate:"required"`
}

// AdminAdvanceWithdrawalHandler moves a withdrawal along its status machine.
// Failed and rejected transitions refund the held amount.
func (h *AccountHandlers) AdminAdvanceWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	withdrawalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	var req advanceWithdrawalRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	withdrawal, err := h.service.AdvanceWithdrawal(r.Context(), withdrawalID, req.FromStatus, req.ToStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}
