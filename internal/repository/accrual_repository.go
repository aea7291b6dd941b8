package repository

import (
	"context"
	"errors"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrDuplicateAccrual is returned when an insert collides with the
// (client, plan, year, month) uniqueness guard.
var ErrDuplicateAccrual = errors.New("ya existe un devengamiento para ese período")

// AccrualRepository defines the interface for accrual data access
type AccrualRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Accrual, error)
	Create(ctx context.Context, accrual *models.Accrual) error
	Delete(ctx context.Context, id uint) error
	// ExistsForPeriod checks the idempotence guard for one plan and period.
	ExistsForPeriod(ctx context.Context, clientID, planID uint, period models.Period) (bool, error)
	// ListByClient returns all accruals of a client ordered oldest
	// period first, ties broken by id.
	ListByClient(ctx context.Context, clientID uint) ([]models.Accrual, error)
	List(ctx context.Context, query *ListQuery) ([]models.Accrual, int64, error)
	// SumAllocations returns the total payment amount applied to an accrual.
	SumAllocations(ctx context.Context, accrualID uint) (decimal.Decimal, error)
	// SumAdjustments returns the signed total of adjustments referencing an accrual.
	SumAdjustments(ctx context.Context, accrualID uint) (decimal.Decimal, error)
	CountAllocations(ctx context.Context, accrualID uint) (int64, error)
	CountAdjustmentRefs(ctx context.Context, accrualID uint) (int64, error)
}

type accrualRepository struct {
	db *gorm.DB
}

// NewAccrualRepository creates a new accrual repository
func NewAccrualRepository(db *gorm.DB) AccrualRepository {
	return &accrualRepository{db: db}
}

func (r *accrualRepository) FindByID(ctx context.Context, id uint) (*models.Accrual, error) {
	var accrual models.Accrual
	if err := r.db.WithContext(ctx).First(&accrual, id).Error; err != nil {
		return nil, err
	}
	return &accrual, nil
}

func (r *accrualRepository) Create(ctx context.Context, accrual *models.Accrual) error {
	if err := r.db.WithContext(ctx).Create(accrual).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccrual
		}
		return err
	}
	return nil
}

// isUniqueViolation detects a postgres unique-constraint error (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *accrualRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Accrual{}, id).Error
}

func (r *accrualRepository) ExistsForPeriod(ctx context.Context, clientID, planID uint, period models.Period) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Accrual{}).
		Where("client_id = ? AND plan_id = ? AND period_year = ? AND period_month = ?",
			clientID, planID, period.Year, period.Month).
		Count(&count).Error
	return count > 0, err
}

func (r *accrualRepository) ListByClient(ctx context.Context, clientID uint) ([]models.Accrual, error) {
	var accruals []models.Accrual
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("period_year ASC, period_month ASC, id ASC").
		Find(&accruals).Error
	return accruals, err
}

func (r *accrualRepository) List(ctx context.Context, query *ListQuery) ([]models.Accrual, int64, error) {
	var accruals []models.Accrual
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Accrual{})

	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["year"] != "" {
		db = db.Where("period_year = ?", query.Filters["year"])
	}
	if query.Filters["month"] != "" {
		db = db.Where("period_month = ?", query.Filters["month"])
	}

	db.Count(&total)

	err := paginate(db.Preload("Client").Order("period_year DESC, period_month DESC, id DESC"), query).
		Find(&accruals).Error
	return accruals, total, err
}

func (r *accrualRepository) SumAllocations(ctx context.Context, accrualID uint) (decimal.Decimal, error) {
	return r.sum(ctx, &models.PaymentAllocation{}, "accrual_id = ?", accrualID)
}

func (r *accrualRepository) SumAdjustments(ctx context.Context, accrualID uint) (decimal.Decimal, error) {
	return r.sum(ctx, &models.Adjustment{}, "accrual_id = ?", accrualID)
}

func (r *accrualRepository) sum(ctx context.Context, model interface{}, cond string, args ...interface{}) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(model).
		Select("COALESCE(SUM(amount), 0) as total").
		Where(cond, args...).
		Scan(&result).Error
	return result.Total, err
}

func (r *accrualRepository) CountAllocations(ctx context.Context, accrualID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocation{}).
		Where("accrual_id = ?", accrualID).
		Count(&count).Error
	return count, err
}

func (r *accrualRepository) CountAdjustmentRefs(ctx context.Context, accrualID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Adjustment{}).
		Where("accrual_id = ?", accrualID).
		Count(&count).Error
	return count, err
}
