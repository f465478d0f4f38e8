/**
 * @description
 * This file sets up the HTTP router for the account service using the
 * go-chi/chi router. It defines the API routes, applies middleware for
 * logging, CORS, and authentication, and maps the routes to their
 * corresponding handler functions.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vaultra/account-service/internal/app"
)

// NewRouter creates a new Chi router and registers the account-service routes.
func NewRouter(h *AccountHandlers, service *app.Service, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Provider-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Account service is healthy"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Post("/auth/register", h.RegisterHandler)
	r.Post("/auth/login", h.LoginHandler)
	r.Post("/deposits/callback", h.DepositCallbackHandler)

	// Protected routes that require a valid session token
	r.Group(func(r chi.Router) {
		r.Use(SessionAuthMiddleware(service))

		r.Get("/auth/me", h.MeHandler)
		r.Get("/auth/sessions", h.ListSessionsHandler)
		r.Delete("/auth/sessions/{token}", h.RevokeSessionHandler)
		r.Post("/auth/sessions/revoke-others", h.RevokeOtherSessionsHandler)
		r.Post("/auth/kyc", h.SubmitKycHandler)
		r.Get("/auth/kyc", h.KycStatusHandler)

		r.Post("/transfers", h.CreateTransferHandler)
		r.Get("/transfers", h.ListTransfersHandler)
		r.Get("/transactions", h.HistoryHandler)
		r.Get("/balances", h.ListBalancesHandler)
		r.Post("/withdrawals", h.CreateWithdrawalHandler)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/admin/deposits", h.AdminListDepositsHandler)
			r.Post("/admin/deposits/{id}/reject", h.AdminRejectDepositHandler)
			r.Get("/admin/kyc/pending", h.AdminListPendingKycHandler)
			r.Post("/admin/kyc/{userID}/review", h.AdminReviewKycHandler)
			r.Post("/admin/withdrawals/{id}/status", h.AdminAdvanceWithdrawalHandler)
		})
	})

	return r
}
