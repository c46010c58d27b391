package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/config"
	"github.com/hikmahsphere/hikmah-api/internal/jobs"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
)

// Scheduled job names
const (
	JobOverdueSweep = "overdue_sweep"
	JobReminders    = "installment_reminders"
	JobLogRetention = "donor_log_retention"
)

type JobService struct {
	worker *jobs.Worker
	jobs   map[string]jobs.Job
}

func NewJobService(worker *jobs.Worker, installments *InstallmentService, audit *AuditService) *JobService {
	now := func() time.Time { return time.Now().UTC() }
	return &JobService{
		worker: worker,
		jobs: map[string]jobs.Job{
			JobOverdueSweep: func(ctx context.Context) error {
				_, err := installments.SweepOverdue(ctx, now())
				return err
			},
			JobReminders: func(ctx context.Context) error {
				_, err := installments.SendReminders(ctx, now())
				return err
			},
			JobLogRetention: func(ctx context.Context) error {
				n, err := audit.PurgeExpired(ctx, now())
				if err == nil && n > 0 {
					logger.Info("[JobService] expired donor logs purged", "count", n)
				}
				return err
			},
		},
	}
}

// Schedule registers every job with its cron expression from config
func (s *JobService) Schedule(cfg *config.Config) error {
	specs := map[string]string{
		JobOverdueSweep: cfg.OverdueSweepCron,
		JobReminders:    cfg.ReminderCron,
		JobLogRetention: cfg.LogRetentionCron,
	}
	for name, spec := range specs {
		if err := s.worker.ScheduleCron(name, spec, s.jobs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Run queues an immediate run of a scheduled job
func (s *JobService) Run(name string) error {
	job, ok := s.jobs[name]
	if !ok || !s.worker.Trigger(name, job) {
		return fmt.Errorf("%w: job %s", ErrNotFound, name)
	}
	return nil
}

func (s *JobService) GetStatus() map[string]interface{} {
	stats := s.worker.GetStats()
	return map[string]interface{}{
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"workers":        stats.Workers,
		"schedules":      s.worker.Schedules(),
	}
}
