/**
 * @description
 * HTTP handlers for the user-facing API: registration, login, transfers,
 * unified history, balances, withdrawals and the provider deposit callback.
 * Handlers parse and validate requests, call the application service and
 * write the response; business rules live one layer down.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - github.com/go-playground/validator/v10: Request payload validation.
 * - github.com/prometheus/client_golang: Request metrics.
 * - internal/app, internal/domain: Service logic and models.
 */

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/app"
	"github.com/vaultra/account-service/internal/domain"
)

var (
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_transfers_total",
		Help: "Internal transfer attempts by outcome",
	}, []string{"outcome"})

	historyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "account_history_request_duration_seconds",
		Help:    "Unified history request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

// AccountHandlers holds the application service that handlers use.
type AccountHandlers struct {
	service     *app.Service
	validate    *validator.Validate
	providerKey string
}

// NewAccountHandlers creates a new instance of AccountHandlers.
func NewAccountHandlers(service *app.Service, providerKey string) *AccountHandlers {
	return &AccountHandlers{
		service:     service,
		validate:    validator.New(),
		providerKey: providerKey,
	}
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
func (h *AccountHandlers) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation
	}
	if err := h.validate.Struct(dst); err != nil {
		return domain.ErrValidation
	}
	return nil
}

// parseAmount converts a wire amount string into a positive decimal.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, domain.ErrValidation
	}
	return amount, nil
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterHandler creates a new user account.
func (h *AccountHandlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginHandler validates credentials and issues a session token.
func (h *AccountHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// MeHandler returns the authenticated caller.
func (h *AccountHandlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type createTransferRequest struct {
	RecipientEmail string  `json:"recipient_email" validate:"required,email"`
	Asset          string  `json:"asset" validate:"required"`
	Amount         string  `json:"amount" validate:"required"`
	Memo           *string `json:"memo,omitempty"`
}

// CreateTransferHandler performs an internal user-to-user transfer.
func (h *AccountHandlers) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req createTransferRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	transfer, err := h.service.Transfer(r.Context(), user.ID, req.RecipientEmail, req.Asset, amount, req.Memo)
	if err != nil {
		transfersTotal.WithLabelValues("failed").Inc()
		writeError(w, err)
		return
	}
	transfersTotal.WithLabelValues("completed").Inc()
	writeJSON(w, http.StatusCreated, transfer)
}

// ListTransfersHandler returns the caller's internal transfers.
func (h *AccountHandlers) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	transfers, err := h.service.ListTransfers(r.Context(), user.ID, queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

// HistoryHandler returns the caller's unified transaction history.
func (h *AccountHandlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(historyLatency)
	defer timer.ObserveDuration()

	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	history, err := h.service.HistoryForUser(r.Context(), user.ID, queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// ListBalancesHandler returns the caller's non-zero balances.
func (h *AccountHandlers) ListBalancesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	balances, err := h.service.ListBalances(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

type createWithdrawalRequest struct {
	Asset   string `json:"asset" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// CreateWithdrawalHandler places a withdrawal request and holds the amount.
func (h *AccountHandlers) CreateWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req createWithdrawalRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	withdrawal, err := h.service.RequestWithdrawal(r.Context(), user.ID, req.Asset, amount, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, withdrawal)
}

type depositCallbackRequest struct {
	UserID          string  `json:"user_id" validate:"required,uuid"`
	Asset           string  `json:"asset" validate:"required"`
	Amount          string  `json:"amount" validate:"required"`
	Provider        string  `json:"provider" validate:"required"`
	ProviderOrderID *string `json:"provider_order_id,omitempty"`
	Completed       bool    `json:"completed"`
}

// DepositCallbackHandler records an inbound payment event from a provider.
// Guarded by the shared provider key, not a user session.
func (h *AccountHandlers) DepositCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if h.providerKey == "" || r.Header.Get("X-Provider-Key") != h.providerKey {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req depositCallbackRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	deposit, err := h.service.RecordDeposit(r.Context(), userID, req.Asset, amount, req.Provider, req.ProviderOrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Completed {
		if deposit, err = h.service.CompleteDeposit(r.Context(), deposit.ID); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, deposit)
}

// queryLimit parses the optional ?limit= parameter; 0 means "service default".
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
