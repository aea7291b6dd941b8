package repository

import (
	"context"

	"github.com/abonos-app/abonos-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines audit log data access
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error)
}

type gormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &gormAuditRepository{db: db}
}

func (r *gormAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepository) List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if entity, ok := query.Filters["entity"]; ok && entity != "" {
		db = db.Where("entity = ?", entity)
	}
	if userID, ok := query.Filters["user_id"]; ok && userID != "" {
		db = db.Where("user_id = ?", userID)
	}
	if action, ok := query.Filters["action"]; ok && action != "" {
		db = db.Where("action = ?", action)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}
