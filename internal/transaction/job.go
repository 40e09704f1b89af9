package transaction

import (
	"context"
	"time"

	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/repository"
)

// CleanupJob prunes old audit records. Runs on the shared worker pool.
type CleanupJob struct {
	txLog         repository.TransactionLog
	retentionDays int
}

// NewCleanupJob creates a cleanup job with the given retention period
func NewCleanupJob(txLog repository.TransactionLog, retentionDays int) *CleanupJob {
	return &CleanupJob{
		txLog:         txLog,
		retentionDays: retentionDays,
	}
}

// Process removes audit records older than the retention period
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCleanupJobStarting, "retention_days", j.retentionDays)

	start := time.Now()
	deleted, err := j.txLog.Cleanup(ctx, j.retentionDays)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, "error", err)
		return err
	}

	log.Info(LogMsgCleanupJobCompleted,
		"deleted", deleted,
		"duration", time.Since(start).String())
	return nil
}
