package services

import (
	"context"

	"github.com/abonos-app/abonos-api/internal/jobs"
	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/abonos-app/abonos-api/pkg/logger"
)

// AuditService records who did what to which entity. Entries are
// written through the background worker; failures are logged but never
// propagated, an audit miss must not roll back the business operation
// it describes.
type AuditService struct {
	repo   repository.AuditRepository
	worker *jobs.Worker
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{repo: repo, worker: worker}
}

// Log records an audit entry without blocking the caller
func (s *AuditService) Log(ctx context.Context, userID uint, action, entity string, entityID uint, details string) {
	entry := &models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	s.worker.EnqueueAsync(func(jobCtx context.Context) error {
		if err := s.repo.Create(jobCtx, entry); err != nil {
			logger.Error("Failed to write audit entry",
				"action", action,
				"entity", entity,
				"entity_id", entityID,
				"error", err)
		}
		return nil
	})
}

// List returns audit entries matching the query
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, query)
}
