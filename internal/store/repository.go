/**
 * @description
 * This file defines the `Repository` interface, the contract for every data
 * access operation the service needs. The app layer depends only on this
 * interface, which keeps business logic decoupled from PostgreSQL and lets
 * tests run against in-memory fakes.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: UUID handling.
 * - internal/domain: Domain models.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vaultra/account-service/internal/domain"
)

// DepositFilter carries the optional equality filters for the admin deposit
// view. A nil field means "no constraint on that field"; the api layer
// collapses its "all" sentinel to nil before calling in.
type DepositFilter struct {
	Status   *string
	Provider *string
}

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User methods
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Balance methods
	ListBalancesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error)

	// Transfer methods. ExecuteTransfer performs the debit, the credit and
	// the transfer insert in one transaction; it either commits all three or
	// leaves the database untouched.
	ExecuteTransfer(ctx context.Context, transfer *domain.InternalTransfer) error
	ListTransfersByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.InternalTransfer, error)

	// Deposit methods
	CreateDeposit(ctx context.Context, deposit *domain.Deposit) error
	FindDepositByProviderOrder(ctx context.Context, provider, providerOrderID string) (*domain.Deposit, error)
	CompleteDeposit(ctx context.Context, depositID uuid.UUID) (*domain.Deposit, error)
	UpdateDepositStatus(ctx context.Context, depositID uuid.UUID, fromStatus, toStatus string) error
	ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Deposit, error)
	ListDepositsFiltered(ctx context.Context, filter DepositFilter, limit int) ([]domain.AdminDeposit, error)
	FailStalePendingDeposits(ctx context.Context, olderThan time.Time) (int64, error)

	// Withdrawal methods
	CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) error
	ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Withdrawal, error)
	AdvanceWithdrawalStatus(ctx context.Context, withdrawalID uuid.UUID, fromStatus, toStatus string, refund bool) (*domain.Withdrawal, error)

	// Session methods
	InsertSession(ctx context.Context, session *domain.Session) error
	FindSessionUser(ctx context.Context, token string) (*domain.User, *domain.Session, error)
	ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Session, error)
	DeleteSession(ctx context.Context, token string, userID uuid.UUID) error
	DeleteOtherSessions(ctx context.Context, userID uuid.UUID, currentToken string) (int64, error)
	DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// KYC methods
	UpsertKycSubmission(ctx context.Context, submission *domain.KycSubmission) error
	GetKycSubmission(ctx context.Context, userID uuid.UUID) (*domain.KycSubmission, error)
	ReviewKycSubmission(ctx context.Context, userID uuid.UUID, status string, reviewNote *string, reviewedBy uuid.UUID, reviewedAt time.Time) (*domain.KycSubmission, error)
	ListPendingKycSubmissions(ctx context.Context, limit int) ([]domain.KycSubmission, error)
}
