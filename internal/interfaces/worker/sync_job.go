package worker

import (
	"context"

	"caixa/internal/domain/openfinance"
)

// SyncJob runs a bank sync for one user, typically in response to an
// aggregator webhook.
type SyncJob struct {
	service *openfinance.SyncService
	userID  int64
}

// NewSyncJob creates a sync job for the given user.
func NewSyncJob(service *openfinance.SyncService, userID int64) *SyncJob {
	return &SyncJob{service: service, userID: userID}
}

func (j *SyncJob) Description() string { return "bank sync" }

func (j *SyncJob) UserID() int64 { return j.userID }

func (j *SyncJob) Execute(ctx context.Context) error {
	_, err := j.service.SyncUser(ctx, j.userID)
	return err
}
