/**
 * @description
 * Deposit and withdrawal flows plus the admin query layer.
 *
 * Deposit callbacks are idempotent on (provider, provider_order_id); the
 * balance credit happens exactly once, inside the completion transaction.
 * Withdrawal creation debits under the store's row lock; failing or
 * rejecting one refunds the debit atomically with the status change.
 */

package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
	"github.com/vaultra/account-service/internal/store"
	"go.uber.org/zap"
)

const maxAdminDeposits = 500

// withdrawalTransitions maps each withdrawal status to its allowed
// successors. Terminal states have no entry.
var withdrawalTransitions = map[string][]string{
	domain.WithdrawalStatusPending:    {domain.WithdrawalStatusProcessing, domain.WithdrawalStatusFailed, domain.WithdrawalStatusRejected},
	domain.WithdrawalStatusProcessing: {domain.WithdrawalStatusCompleted, domain.WithdrawalStatusFailed},
}

func withdrawalTransitionAllowed(from, to string) bool {
	for _, allowed := range withdrawalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// withdrawalRefundOn reports whether moving into the status returns the held
// amount to the user.
func withdrawalRefundOn(to string) bool {
	return to == domain.WithdrawalStatusFailed || to == domain.WithdrawalStatusRejected
}

// RecordDeposit handles an inbound provider payment event. A repeated
// callback for the same provider order returns the existing record.
func (s *Service) RecordDeposit(ctx context.Context, userID uuid.UUID, asset string, amount decimal.Decimal, provider string, providerOrderID *string) (*domain.Deposit, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	provider = strings.TrimSpace(provider)
	if asset == "" || provider == "" || !amount.IsPositive() {
		return nil, domain.ErrValidation
	}

	deposit := &domain.Deposit{
		ID:              uuid.New(),
		UserID:          userID,
		Asset:           asset,
		Amount:          amount,
		Provider:        provider,
		ProviderOrderID: providerOrderID,
		Status:          domain.DepositStatusPending,
	}
	err := s.repo.CreateDeposit(ctx, deposit)
	if errors.Is(err, store.ErrStatusConflict) && providerOrderID != nil {
		existing, findErr := s.repo.FindDepositByProviderOrder(ctx, provider, *providerOrderID)
		if findErr != nil {
			return nil, storeFailure("deposit.find_existing", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, storeFailure("deposit.record", err)
	}
	return deposit, nil
}

// CompleteDeposit finalizes a pending deposit and credits the balance. The
// credit and the status change commit together; completing twice is a
// conflict, not a double credit.
func (s *Service) CompleteDeposit(ctx context.Context, depositID uuid.UUID) (*domain.Deposit, error) {
	deposit, err := s.repo.CompleteDeposit(ctx, depositID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDepositNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, store.ErrStatusConflict):
			return nil, domain.ErrValidation
		}
		return nil, storeFailure("deposit.complete", err)
	}
	zap.L().Info("deposit completed",
		zap.String("deposit_id", deposit.ID.String()),
		zap.String("user_id", deposit.UserID.String()),
		zap.String("asset", deposit.Asset),
		zap.String("amount", deposit.Amount.String()),
	)
	return deposit, nil
}

// RejectDeposit moves a pending deposit to failed or rejected without any
// balance effect.
func (s *Service) RejectDeposit(ctx context.Context, depositID uuid.UUID, toStatus string) error {
	if toStatus != domain.DepositStatusFailed && toStatus != domain.DepositStatusRejected {
		return domain.ErrValidation
	}
	err := s.repo.UpdateDepositStatus(ctx, depositID, domain.DepositStatusPending, toStatus)
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return domain.ErrValidation
		}
		return storeFailure("deposit.reject", err)
	}
	return nil
}

// RequestWithdrawal creates a withdrawal and holds the amount. Sufficiency is
// checked by the store under the balance row lock, never against a cached
// read.
func (s *Service) RequestWithdrawal(ctx context.Context, userID uuid.UUID, asset string, amount decimal.Decimal, address string) (*domain.Withdrawal, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	address = strings.TrimSpace(address)
	if asset == "" || address == "" || !amount.IsPositive() {
		return nil, domain.ErrValidation
	}

	withdrawal := &domain.Withdrawal{
		ID:      uuid.New(),
		UserID:  userID,
		Asset:   asset,
		Amount:  amount,
		Address: address,
		Status:  domain.WithdrawalStatusPending,
	}
	if err := s.repo.CreateWithdrawal(ctx, withdrawal); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, storeFailure("withdrawal.create", err)
	}
	return withdrawal, nil
}

// AdvanceWithdrawal moves a withdrawal along its status machine on behalf of
// operations staff, refunding the hold when it dead-ends.
func (s *Service) AdvanceWithdrawal(ctx context.Context, withdrawalID uuid.UUID, fromStatus, toStatus string) (*domain.Withdrawal, error) {
	if !withdrawalTransitionAllowed(fromStatus, toStatus) {
		return nil, domain.ErrValidation
	}
	withdrawal, err := s.repo.AdvanceWithdrawalStatus(ctx, withdrawalID, fromStatus, toStatus, withdrawalRefundOn(toStatus))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrWithdrawalNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, store.ErrStatusConflict):
			return nil, domain.ErrValidation
		}
		return nil, storeFailure("withdrawal.advance", err)
	}

	s.publishEvent(ctx, domain.EventWithdrawalStatusChanged, domain.WithdrawalStatusChangedEvent{
		WithdrawalID: withdrawal.ID,
		UserID:       withdrawal.UserID,
		Status:       withdrawal.Status,
		ChangedAt:    time.Now().UTC(),
	})
	return withdrawal, nil
}

// ListDeposits is the bounded, filtered admin read over deposits. Absent
// filter fields match everything; the cap keeps responses bounded.
func (s *Service) ListDeposits(ctx context.Context, filter store.DepositFilter, limit int) ([]domain.AdminDeposit, error) {
	limit = clampLimit(limit, maxAdminDeposits, maxAdminDeposits)
	deposits, err := s.repo.ListDepositsFiltered(ctx, filter, limit)
	if err != nil {
		return nil, storeFailure("deposit.admin_list", err)
	}
	return deposits, nil
}
