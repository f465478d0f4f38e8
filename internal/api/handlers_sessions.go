package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vaultra/account-service/internal/domain"
)

// ListSessionsHandler returns the caller's active sessions, flagging the one
// used for this request.
func (h *AccountHandlers) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	current, _ := GetSessionToken(r.Context())

	sessions, err := h.service.ListSessions(r.Context(), user.ID, current)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// RevokeSessionHandler deletes one of the caller's sessions by token.
// Tokens belonging to other users are ignored silently.
func (h *AccountHandlers) RevokeSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, domain.ErrValidation)
		return
	}
	if err := h.service.RevokeSession(r.Context(), token, user.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type revokeOthersResponse struct {
	Revoked int64 `json:"revoked"`
}

// RevokeOtherSessionsHandler signs the user out of every device except the
// one making the request.
func (h *AccountHandlers) RevokeOtherSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	current, ok := GetSessionToken(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	revoked, err := h.service.RevokeOtherSessions(r.Context(), user.ID, current)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revokeOthersResponse{Revoked: revoked})
}

type submitKycRequest struct {
	Documents []kycDocumentPayload `json:"documents" validate:"required,min=1,dive"`
}

type kycDocumentPayload struct {
	Type    string `json:"type" validate:"required"`
	FileKey string `json:"file_key" validate:"required"`
}

// SubmitKycHandler submits identity documents for review. Re-submitting
// replaces the previous documents and resets the status to pending.
func (h *AccountHandlers) SubmitKycHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req submitKycRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	documents := make([]domain.KycDocument, 0, len(req.Documents))
	for _, doc := range req.Documents {
		documents = append(documents, domain.KycDocument{Type: doc.Type, FileKey: doc.FileKey})
	}

	submission, err := h.service.SubmitKyc(r.Context(), user.ID, documents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submission)
}

// KycStatusHandler returns the caller's current KYC state.
func (h *AccountHandlers) KycStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	submission, err := h.service.GetKycStatus(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submission)
}
