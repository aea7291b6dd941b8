package repository

import (
	"context"

	"github.com/abonos-app/abonos-api/internal/models"
	"gorm.io/gorm"
)

// PlanRepository defines the interface for plan data access
type PlanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Plan, error)
	Create(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Plan, int64, error)
	// FindBillable returns active plans belonging to active clients,
	// the candidate set for accrual generation.
	FindBillable(ctx context.Context) ([]models.Plan, error)
	CountAccruals(ctx context.Context, planID uint) (int64, error)
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) FindByID(ctx context.Context, id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).Preload("Client").First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) Create(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *planRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Plan{}, id).Error
}

func (r *planRepository) List(ctx context.Context, query *ListQuery) ([]models.Plan, int64, error) {
	var plans []models.Plan
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Plan{})

	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["active"] != "" {
		db = db.Where("active = ?", query.Filters["active"] == "true")
	}

	db.Count(&total)

	err := paginate(db.Preload("Client").Order("active DESC, client_id ASC, id ASC"), query).
		Find(&plans).Error
	return plans, total, err
}

func (r *planRepository) FindBillable(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.WithContext(ctx).
		Joins("JOIN clients ON clients.id = plans.client_id").
		Where("plans.active = ? AND clients.active = ?", true, true).
		Preload("Client").
		Order("plans.id ASC").
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) CountAccruals(ctx context.Context, planID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Accrual{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	return count, err
}
