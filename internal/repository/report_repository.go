package repository

import (
	"context"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerTotals aggregates the whole ledger for the dashboard's
// outstanding-balance figure.
type LedgerTotals struct {
	Accrued   decimal.Decimal
	Adjusted  decimal.Decimal
	Allocated decimal.Decimal
}

// Outstanding returns accrued + adjusted - allocated
func (t LedgerTotals) Outstanding() decimal.Decimal {
	return t.Accrued.Add(t.Adjusted).Sub(t.Allocated)
}

// ReportRepository provides the aggregate queries behind dashboard and reports
type ReportRepository interface {
	CountActiveClients(ctx context.Context) (int64, error)
	CountActivePlans(ctx context.Context) (int64, error)
	AccruedInPeriod(ctx context.Context, period models.Period) (decimal.Decimal, error)
	CollectedSince(ctx context.Context, from time.Time) (decimal.Decimal, error)
	Totals(ctx context.Context) (LedgerTotals, error)
	// CountClientsWithBalance counts clients owning at least one accrual
	// whose applied allocations do not cover its amount.
	CountClientsWithBalance(ctx context.Context) (int64, error)
	// AccrualsOlderThan returns accruals (client preloaded) accrued on or
	// before the cutoff date, for the delinquency report.
	AccrualsOlderThan(ctx context.Context, cutoff time.Time) ([]models.Accrual, error)
	// PaymentsBetween returns payments (client preloaded) in a date range
	// ordered by date, for the collections report.
	PaymentsBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountActiveClients(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) CountActivePlans(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Plan{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) AccruedInPeriod(ctx context.Context, period models.Period) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Accrual{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("period_year = ? AND period_month = ?", period.Year, period.Month).
		Scan(&result).Error
	return result.Total, err
}

func (r *reportRepository) CollectedSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("date >= ?", from).
		Scan(&result).Error
	return result.Total, err
}

func (r *reportRepository) Totals(ctx context.Context) (LedgerTotals, error) {
	var totals LedgerTotals

	queries := []struct {
		model interface{}
		dest  *decimal.Decimal
	}{
		{&models.Accrual{}, &totals.Accrued},
		{&models.Adjustment{}, &totals.Adjusted},
		{&models.PaymentAllocation{}, &totals.Allocated},
	}

	for _, q := range queries {
		var result struct {
			Total decimal.Decimal
		}
		err := r.db.WithContext(ctx).
			Model(q.model).
			Select("COALESCE(SUM(amount), 0) as total").
			Scan(&result).Error
		if err != nil {
			return totals, err
		}
		*q.dest = result.Total
	}

	return totals, nil
}

func (r *reportRepository) CountClientsWithBalance(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT client_id)
		FROM accruals
		WHERE id IN (
			SELECT a.id
			FROM accruals a
			LEFT JOIN payment_allocations pa ON a.id = pa.accrual_id
			GROUP BY a.id
			HAVING COALESCE(SUM(pa.amount), 0) < a.amount
		)`).Scan(&count).Error
	return count, err
}

func (r *reportRepository) AccrualsOlderThan(ctx context.Context, cutoff time.Time) ([]models.Accrual, error) {
	var accruals []models.Accrual
	err := r.db.WithContext(ctx).
		Joins("JOIN clients ON clients.id = accruals.client_id").
		Where("accruals.accrued_at <= ? AND clients.active = ?", cutoff, true).
		Preload("Client").
		Order("accruals.client_id ASC, accruals.period_year ASC, accruals.period_month ASC").
		Find(&accruals).Error
	return accruals, err
}

func (r *reportRepository) PaymentsBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Preload("Client").
		Order("date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}
