package eventlog

import (
	"context"
	"time"

	"github.com/osse101/MinionBot_Go/internal/logger"
)

// CleanupJob prunes old event log rows. Runs on the shared worker pool.
type CleanupJob struct {
	service       Service
	retentionDays int
}

// NewCleanupJob creates a cleanup job with the given retention period
func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	return &CleanupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Process removes events older than the retention period
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCleanupJobStarting, "retention_days", j.retentionDays)

	start := time.Now()
	deleted, err := j.service.CleanupOldEvents(ctx, j.retentionDays)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, "error", err)
		return err
	}

	log.Info(LogMsgCleanupJobCompleted,
		"deleted", deleted,
		"duration", time.Since(start).String())
	return nil
}
