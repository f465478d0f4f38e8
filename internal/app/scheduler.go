/**
 * @description
 * Cron scheduler setup for the maintenance jobs.
 */
package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron     *cron.Cron
	jobs     *Jobs
	schedule string
}

// NewScheduler creates a new scheduler instance. The same schedule drives
// both maintenance jobs.
func NewScheduler(jobs *Jobs, schedule string) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	return &Scheduler{
		cron:     c,
		jobs:     jobs,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.jobs.ExpireSessions); err != nil {
		zap.L().Error("failed to schedule session expiry job", zap.Error(err))
	} else {
		zap.L().Info("scheduled session expiry job", zap.String("schedule", s.schedule))
	}

	if _, err := s.cron.AddFunc(s.schedule, s.jobs.FailStaleDeposits); err != nil {
		zap.L().Error("failed to schedule stale deposit job", zap.Error(err))
	} else {
		zap.L().Info("scheduled stale deposit job", zap.String("schedule", s.schedule))
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
