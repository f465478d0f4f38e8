package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vaultra/account-service/internal/domain"
	"github.com/vaultra/account-service/internal/store"
)

// fakeRepository implements store.Repository through per-method function
// fields. Unset methods fail loudly so tests only stub what they exercise.
type fakeRepository struct {
	createUserFn                  func(ctx context.Context, user *domain.User) error
	findUserByEmailFn             func(ctx context.Context, email string) (*domain.User, error)
	listBalancesByUserIDFn        func(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error)
	executeTransferFn             func(ctx context.Context, transfer *domain.InternalTransfer) error
	listTransfersByUserFn         func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.InternalTransfer, error)
	createDepositFn               func(ctx context.Context, deposit *domain.Deposit) error
	findDepositByProviderOrderFn  func(ctx context.Context, provider, providerOrderID string) (*domain.Deposit, error)
	completeDepositFn             func(ctx context.Context, depositID uuid.UUID) (*domain.Deposit, error)
	updateDepositStatusFn         func(ctx context.Context, depositID uuid.UUID, fromStatus, toStatus string) error
	listDepositsByUserFn          func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Deposit, error)
	listDepositsFilteredFn        func(ctx context.Context, filter store.DepositFilter, limit int) ([]domain.AdminDeposit, error)
	failStalePendingDepositsFn    func(ctx context.Context, olderThan time.Time) (int64, error)
	createWithdrawalFn            func(ctx context.Context, withdrawal *domain.Withdrawal) error
	listWithdrawalsByUserFn       func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Withdrawal, error)
	advanceWithdrawalStatusFn     func(ctx context.Context, withdrawalID uuid.UUID, fromStatus, toStatus string, refund bool) (*domain.Withdrawal, error)
	insertSessionFn               func(ctx context.Context, session *domain.Session) error
	findSessionUserFn             func(ctx context.Context, token string) (*domain.User, *domain.Session, error)
	listSessionsByUserFn          func(ctx context.Context, userID uuid.UUID) ([]domain.Session, error)
	deleteSessionFn               func(ctx context.Context, token string, userID uuid.UUID) error
	deleteOtherSessionsFn         func(ctx context.Context, userID uuid.UUID, currentToken string) (int64, error)
	deleteSessionsCreatedBeforeFn func(ctx context.Context, cutoff time.Time) (int64, error)
	upsertKycSubmissionFn         func(ctx context.Context, submission *domain.KycSubmission) error
	getKycSubmissionFn            func(ctx context.Context, userID uuid.UUID) (*domain.KycSubmission, error)
	reviewKycSubmissionFn         func(ctx context.Context, userID uuid.UUID, status string, reviewNote *string, reviewedBy uuid.UUID, reviewedAt time.Time) (*domain.KycSubmission, error)
	listPendingKycSubmissionsFn   func(ctx context.Context, limit int) ([]domain.KycSubmission, error)
}

var _ store.Repository = (*fakeRepository)(nil)

func (f *fakeRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return f.createUserFn(ctx, user)
}

func (f *fakeRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.findUserByEmailFn(ctx, email)
}

func (f *fakeRepository) ListBalancesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error) {
	return f.listBalancesByUserIDFn(ctx, userID)
}

func (f *fakeRepository) ExecuteTransfer(ctx context.Context, transfer *domain.InternalTransfer) error {
	return f.executeTransferFn(ctx, transfer)
}

func (f *fakeRepository) ListTransfersByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.InternalTransfer, error) {
	return f.listTransfersByUserFn(ctx, userID, limit)
}

func (f *fakeRepository) CreateDeposit(ctx context.Context, deposit *domain.Deposit) error {
	return f.createDepositFn(ctx, deposit)
}

func (f *fakeRepository) FindDepositByProviderOrder(ctx context.Context, provider, providerOrderID string) (*domain.Deposit, error) {
	return f.findDepositByProviderOrderFn(ctx, provider, providerOrderID)
}

func (f *fakeRepository) CompleteDeposit(ctx context.Context, depositID uuid.UUID) (*domain.Deposit, error) {
	return f.completeDepositFn(ctx, depositID)
}

func (f *fakeRepository) UpdateDepositStatus(ctx context.Context, depositID uuid.UUID, fromStatus, toStatus string) error {
	return f.updateDepositStatusFn(ctx, depositID, fromStatus, toStatus)
}

func (f *fakeRepository) ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Deposit, error) {
	return f.listDepositsByUserFn(ctx, userID, limit)
}

func (f *fakeRepository) ListDepositsFiltered(ctx context.Context, filter store.DepositFilter, limit int) ([]domain.AdminDeposit, error) {
	return f.listDepositsFilteredFn(ctx, filter, limit)
}

func (f *fakeRepository) FailStalePendingDeposits(ctx context.Context, olderThan time.Time) (int64, error) {
	return f.failStalePendingDepositsFn(ctx, olderThan)
}

func (f *fakeRepository) CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) error {
	return f.createWithdrawalFn(ctx, withdrawal)
}

func (f *fakeRepository) ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Withdrawal, error) {
	return f.listWithdrawalsByUserFn(ctx, userID, limit)
}

func (f *fakeRepository) AdvanceWithdrawalStatus(ctx context.Context, withdrawalID uuid.UUID, fromStatus, toStatus string, refund bool) (*domain.Withdrawal, error) {
	return f.advanceWithdrawalStatusFn(ctx, withdrawalID, fromStatus, toStatus, refund)
}

func (f *fakeRepository) InsertSession(ctx context.Context, session *domain.Session) error {
	return f.insertSessionFn(ctx, session)
}

func (f *fakeRepository) FindSessionUser(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	return f.findSessionUserFn(ctx, token)
}

func (f *fakeRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	return f.listSessionsByUserFn(ctx, userID)
}

func (f *fakeRepository) DeleteSession(ctx context.Context, token string, userID uuid.UUID) error {
	return f.deleteSessionFn(ctx, token, userID)
}

func (f *fakeRepository) DeleteOtherSessions(ctx context.Context, userID uuid.UUID, currentToken string) (int64, error) {
	return f.deleteOtherSessionsFn(ctx, userID, currentToken)
}

func (f *fakeRepository) DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.deleteSessionsCreatedBeforeFn(ctx, cutoff)
}

func (f *fakeRepository) UpsertKycSubmission(ctx context.Context, submission *domain.KycSubmission) error {
	return f.upsertKycSubmissionFn(ctx, submission)
}

func (f *fakeRepository) GetKycSubmission(ctx context.Context, userID uuid.UUID) (*domain.KycSubmission, error) {
	return f.getKycSubmissionFn(ctx, userID)
}

func (f *fakeRepository) ReviewKycSubmission(ctx context.Context, userID uuid.UUID, status string, reviewNote *string, reviewedBy uuid.UUID, reviewedAt time.Time) (*domain.KycSubmission, error) {
	return f.reviewKycSubmissionFn(ctx, userID, status, reviewNote, reviewedBy, reviewedAt)
}

func (f *fakeRepository) ListPendingKycSubmissions(ctx context.Context, limit int) ([]domain.KycSubmission, error) {
	return f.listPendingKycSubmissionsFn(ctx, limit)
}
