package repository

import (
	"context"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment and allocation data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
	ListByClient(ctx context.Context, clientID uint) ([]models.Payment, error)

	CreateAllocation(ctx context.Context, allocation *models.PaymentAllocation) error
	ListAllocations(ctx context.Context, paymentID uint) ([]models.PaymentAllocation, error)
	// SumAllocated returns the portion of a payment already applied to accruals.
	SumAllocated(ctx context.Context, paymentID uint) (decimal.Decimal, error)
	CountAllocations(ctx context.Context, paymentID uint) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("Client").First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("date >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("date <= ?", query.Filters["end_date"])
	}
	if query.Filters["method"] != "" {
		db = db.Where("method = ?", query.Filters["method"])
	}

	db.Count(&total)

	err := paginate(db.Preload("Client").Order("date DESC, id DESC"), query).
		Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepository) ListByClient(ctx context.Context, clientID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) CreateAllocation(ctx context.Context, allocation *models.PaymentAllocation) error {
	return r.db.WithContext(ctx).Create(allocation).Error
}

func (r *paymentRepository) ListAllocations(ctx context.Context, paymentID uint) ([]models.PaymentAllocation, error) {
	var allocations []models.PaymentAllocation
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Preload("Accrual").
		Order("id ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *paymentRepository) SumAllocated(ctx context.Context, paymentID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocation{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("payment_id = ?", paymentID).
		Scan(&result).Error
	return result.Total, err
}

func (r *paymentRepository) CountAllocations(ctx context.Context, paymentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocation{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}
