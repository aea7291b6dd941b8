package repository

import (
	"context"

	"github.com/abonos-app/abonos-api/internal/models"
	"gorm.io/gorm"
)

// AdjustmentRepository defines the interface for adjustment data access
type AdjustmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Adjustment, error)
	Create(ctx context.Context, adjustment *models.Adjustment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Adjustment, int64, error)
	ListByClient(ctx context.Context, clientID uint) ([]models.Adjustment, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

// NewAdjustmentRepository creates a new adjustment repository
func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) FindByID(ctx context.Context, id uint) (*models.Adjustment, error) {
	var adjustment models.Adjustment
	if err := r.db.WithContext(ctx).First(&adjustment, id).Error; err != nil {
		return nil, err
	}
	return &adjustment, nil
}

func (r *adjustmentRepository) Create(ctx context.Context, adjustment *models.Adjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

func (r *adjustmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Adjustment{}, id).Error
}

func (r *adjustmentRepository) List(ctx context.Context, query *ListQuery) ([]models.Adjustment, int64, error) {
	var adjustments []models.Adjustment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Adjustment{})

	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["category"] != "" {
		db = db.Where("category = ?", query.Filters["category"])
	}

	db.Count(&total)

	err := paginate(db.Preload("Client").Order("date DESC, id DESC"), query).
		Find(&adjustments).Error
	return adjustments, total, err
}

func (r *adjustmentRepository) ListByClient(ctx context.Context, clientID uint) ([]models.Adjustment, error) {
	var adjustments []models.Adjustment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date ASC, id ASC").
		Find(&adjustments).Error
	return adjustments, err
}
