/**
 * @description
 * This file contains the core business logic for the account service. The
 * `Service` struct orchestrates all balance movement, session, and KYC
 * operations, coordinating between the repository and the event producer.
 *
 * Key features:
 * - Validates and executes internal (user-to-user) transfers atomically.
 * - Keeps the error taxonomy stable: every storage failure surfaces as
 *   domain.ErrStoreUnavailable, every business-rule failure as its own
 *   sentinel, and nothing else leaks to callers.
 *
 * @dependencies
 * - github.com/google/uuid: Transfer/withdrawal identifiers.
 * - github.com/shopspring/decimal: Money amounts.
 * - go.uber.org/zap: Structured logging.
 * - internal/domain, internal/store: Domain models and data access.
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

// EventPublisher is the fire-and-forget boundary to the message broker. A nil
// publisher is valid; events are then dropped.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
}

// RateLimiter counts attempts per subject within a fixed window.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// Service provides the core business logic for the account back-end.
type Service struct {
	repo         store.Repository
	events       EventPublisher
	loginLimiter RateLimiter
	loginLimit   int
	loginWindow  time.Duration
}

// NewService creates a new service instance.
func NewService(repo store.Repository, events EventPublisher) *Service {
	return &Service{
		repo:        repo,
		events:      events,
		loginLimit:  10,
		loginWindow: time.Minute,
	}
}

// SetLoginRateLimiter installs the distributed limiter for login attempts.
func (s *Service) SetLoginRateLimiter(limiter RateLimiter, perMinute int) {
	s.loginLimiter = limiter
	if perMinute > 0 {
		s.loginLimit = perMinute
	}
}

// storeFailure logs the underlying storage error and returns the stable
// taxonomy error. Callers never see driver details.
func storeFailure(op string, err error) error {
	zap.L().Error("storage operation failed", zap.String("op", op), zap.Error(err))
	return domain.ErrStoreUnavailable
}

// publishEvent sends an event without letting broker trouble affect the
// calling flow.
func (s *Service) publishEvent(ctx context.Context, routingKey string, body interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, body); err != nil {
		zap.L().Warn("event publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

// Transfer moves value from one user to another. Recipient is identified by
// email. The debit, credit and transfer record commit in one transaction or
// not at all; the sufficiency check runs inside that transaction under a row
// lock, so concurrent transfers from the same sender cannot both pass
// against a stale balance.
func (s *Service) Transfer(ctx context.Context, fromUserID uuid.UUID, recipientEmail, asset string, amount decimal.Decimal, memo *string) (*domain.InternalTransfer, error) {
	recipientEmail = strings.TrimSpace(recipientEmail)
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if recipientEmail == "" || asset == "" {
		return nil, domain.ErrValidation
	}
	if !amount.IsPositive() {
		return nil, domain.ErrValidation
	}

	recipient, err := s.repo.FindUserByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.ErrRecipientNotFound
		}
		return nil, storeFailure("transfer.find_recipient", err)
	}
	if recipient.ID == fromUserID {
		return nil, domain.ErrSelfTransfer
	}

	transfer := &domain.InternalTransfer{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   recipient.ID,
		Asset:      asset,
		Amount:     amount,
		Memo:       memo,
	}
	if err := s.repo.ExecuteTransfer(ctx, transfer); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, storeFailure("transfer.execute", err)
	}

	zap.L().Info("internal transfer committed",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("from_user_id", fromUserID.String()),
		zap.String("to_user_id", recipient.ID.String()),
		zap.String("asset", asset),
		zap.String("amount", amount.String()),
	)
	return transfer, nil
}

// ListTransfers returns the caller's internal transfers, newest first.
func (s *Service) ListTransfers(ctx context.Context, userID uuid.UUID, limit int) ([]domain.InternalTransfer, error) {
	limit = clampLimit(limit, 50, 200)
	transfers, err := s.repo.ListTransfersByUser(ctx, userID, limit)
	if err != nil {
		return nil, storeFailure("transfer.list", err)
	}
	return transfers, nil
}

// ListBalances returns the caller's non-zero balances.
func (s *Service) ListBalances(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error) {
	balances, err := s.repo.ListBalancesByUserID(ctx, userID)
	if err != nil {
		return nil, storeFailure("balance.list", err)
	}
	return balances, nil
}

// clampLimit normalizes a caller-supplied page size.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
