/**
 * @description
 * The unified history aggregator: merges a user's deposits, withdrawals and
 * internal transfers into one feed, newest first.
 *
 * The pipeline is three explicit steps (fetch, merge+sort, truncate), each a
 * pure function over its inputs. Each source is fetched up to the full limit
 * and truncation happens only after the merge; truncating a source first
 * would under-represent a source with many recent records.
 */

package app

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vaultra/account-service/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryForUser returns the caller's consolidated transaction history.
// Pure read; calling it twice over unchanged data yields identical output.
func (s *Service) HistoryForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UnifiedTransaction, error) {
	limit = clampLimit(limit, defaultHistoryLimit, maxHistoryLimit)

	deposits, err := s.repo.ListDepositsByUser(ctx, userID, limit)
	if err != nil {
		return nil, storeFailure("history.deposits", err)
	}
	withdrawals, err := s.repo.ListWithdrawalsByUser(ctx, userID, limit)
	if err != nil {
		return nil, storeFailure("history.withdrawals", err)
	}
	transfers, err := s.repo.ListTransfersByUser(ctx, userID, limit)
	if err != nil {
		return nil, storeFailure("history.transfers", err)
	}

	merged := mergeHistory(userID, deposits, withdrawals, transfers)
	sortHistory(merged)
	return truncateHistory(merged, limit), nil
}

// mergeHistory normalizes the three record types into UnifiedTransactions
// with composite ids. Transfer direction is computed relative to the owner.
func mergeHistory(userID uuid.UUID, deposits []domain.Deposit, withdrawals []domain.Withdrawal, transfers []domain.InternalTransfer) []domain.UnifiedTransaction {
	merged := make([]domain.UnifiedTransaction, 0, len(deposits)+len(withdrawals)+len(transfers))

	for _, d := range deposits {
		merged = append(merged, domain.UnifiedTransaction{
			ID:        "deposit:" + d.ID.String(),
			Type:      domain.TxTypeDeposit,
			Direction: domain.DirectionIn,
			Asset:     d.Asset,
			Amount:    d.Amount,
			Status:    d.Status,
			CreatedAt: d.CreatedAt,
		})
	}
	for _, w := range withdrawals {
		merged = append(merged, domain.UnifiedTransaction{
			ID:        "withdrawal:" + w.ID.String(),
			Type:      domain.TxTypeWithdrawal,
			Direction: domain.DirectionOut,
			Asset:     w.Asset,
			Amount:    w.Amount,
			Status:    w.Status,
			CreatedAt: w.CreatedAt,
		})
	}
	for _, t := range transfers {
		txType := domain.TxTypeInternalReceived
		direction := domain.DirectionIn
		if t.FromUserID == userID {
			txType = domain.TxTypeInternalSent
			direction = domain.DirectionOut
		}
		merged = append(merged, domain.UnifiedTransaction{
			ID:        "internal:" + t.ID.String(),
			Type:      txType,
			Direction: direction,
			Asset:     t.Asset,
			Amount:    t.Amount,
			Status:    "completed",
			Memo:      t.Memo,
			CreatedAt: t.CreatedAt,
		})
	}
	return merged
}

// sortHistory orders newest first. Equal timestamps fall back to the
// composite id, descending, so the total order is stable for any input
// ordering. A zero (missing or malformed upstream) CreatedAt sorts last.
func sortHistory(items []domain.UnifiedTransaction) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

// truncateHistory caps the merged feed. Applied strictly after merge+sort.
func truncateHistory(items []domain.UnifiedTransaction, limit int) []domain.UnifiedTransaction {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
