/**
 * @description
 * Scheduled maintenance jobs: expiring stale sessions and failing deposits
 * stuck in pending. Each run is independent; a failed run logs and waits for
 * the next tick.
 */

package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	service           *Service
	sessionTTL        time.Duration
	staleDepositAfter time.Duration
}

// NewJobs creates a new jobs runner.
func NewJobs(service *Service, sessionTTL, staleDepositAfter time.Duration) *Jobs {
	return &Jobs{
		service:           service,
		sessionTTL:        sessionTTL,
		staleDepositAfter: staleDepositAfter,
	}
}

// ExpireSessions deletes sessions older than the configured TTL.
func (j *Jobs) ExpireSessions() {
	if j.sessionTTL <= 0 {
		return
	}
	ctx := context.Background()
	cutoff := time.Now().Add(-j.sessionTTL)
	removed, err := j.service.repo.DeleteSessionsCreatedBefore(ctx, cutoff)
	if err != nil {
		zap.L().Error("session expiry job failed", zap.Error(err))
		return
	}
	if removed > 0 {
		zap.L().Info("expired sessions removed", zap.Int64("count", removed))
	}
}

// FailStaleDeposits marks deposits that never left pending as failed.
func (j *Jobs) FailStaleDeposits() {
	if j.staleDepositAfter <= 0 {
		return
	}
	ctx := context.Background()
	cutoff := time.Now().Add(-j.staleDepositAfter)
	failed, err := j.service.repo.FailStalePendingDeposits(ctx, cutoff)
	if err != nil {
		zap.L().Error("stale deposit job failed", zap.Error(err))
		return
	}
	if failed > 0 {
		zap.L().Info("stale pending deposits failed", zap.Int64("count", failed))
	}
}
