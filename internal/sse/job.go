package sse

import (
	"context"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

// EmailSyncJob pulls the mailbox for one owner on a fixed interval.
type EmailSyncJob struct {
	emailService service.EmailService
	ownerID      string
	interval     time.Duration
	logger       *logger.Logger
}

func NewEmailSyncJob(emailService service.EmailService, ownerID string, interval time.Duration, logger *logger.Logger) *EmailSyncJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &EmailSyncJob{
		emailService: emailService,
		ownerID:      ownerID,
		interval:     interval,
		logger:       logger,
	}
}

// RunOnce performs a single sync. Errors are logged and returned.
func (j *EmailSyncJob) RunOnce(ctx context.Context) (*service.SyncResult, error) {
	result, err := j.emailService.SyncEmails(ctx, j.ownerID)
	if err != nil {
		j.logger.Error("Periodic email sync failed for user", j.ownerID, ":", err)
		return nil, err
	}
	j.logger.Info("Periodic email sync:", result.Message)
	return result, nil
}

// Start syncs immediately and then on every tick until ctx is done. Runs
// never overlap.
func (j *EmailSyncJob) Start(ctx context.Context) {
	j.logger.Info("Starting email sync job with interval:", j.interval.String())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	_, _ = j.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		case <-ctx.Done():
			j.logger.Info("Email sync job stopped")
			return
		}
	}
}

// GetInterval returns the sync interval
func (j *EmailSyncJob) GetInterval() time.Duration {
	return j.interval
}
