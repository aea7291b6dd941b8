package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestGeneratePeriod_CreatesOnePerPlan(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Ferretería El Tornillo")
	f.addClient(2, "Panadería Central")
	f.plans = []models.Plan{
		{ID: 10, ClientID: 1, Amount: decimal.RequireFromString("1500.00"), StartDate: date(2024, 1, 1), Active: true},
		{ID: 20, ClientID: 2, Amount: decimal.RequireFromString("800.00"), StartDate: date(2024, 6, 1), Active: true},
	}

	accrualSvc, _, _ := newTestServices(f)

	result, err := accrualSvc.GeneratePeriod(context.Background(), models.Period{Year: 2025, Month: 3})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Errors)
	assert.Len(t, f.accruals, 2)

	for _, a := range f.accruals {
		assert.Equal(t, 2025, a.PeriodYear)
		assert.Equal(t, 3, a.PeriodMonth)
		assert.Equal(t, date(2025, 3, 31), a.AccruedAt)
	}
}

func TestGeneratePeriod_SecondRunCreatesNothing(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Ferretería El Tornillo")
	f.plans = []models.Plan{
		{ID: 10, ClientID: 1, Amount: decimal.RequireFromString("1500.00"), StartDate: date(2024, 1, 1), Active: true},
	}

	accrualSvc, _, _ := newTestServices(f)
	period := models.Period{Year: 2025, Month: 3}

	first, err := accrualSvc.GeneratePeriod(context.Background(), period)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := accrualSvc.GeneratePeriod(context.Background(), period)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, "período ya generado", second.Details[0].Reason)
	assert.Len(t, f.accruals, 1)
}

func TestGeneratePeriod_VigencyBoundaries(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	end := date(2025, 3, 1)
	f.plans = []models.Plan{
		// Starts on the period's last day: in force
		{ID: 1, ClientID: 1, Amount: decimal.RequireFromString("100"), StartDate: date(2025, 3, 31), Active: true},
		// Starts the day after the period ends: out of force
		{ID: 2, ClientID: 1, Amount: decimal.RequireFromString("100"), StartDate: date(2025, 4, 1), Active: true},
		// Ends on the period's first day: still in force
		{ID: 3, ClientID: 1, Amount: decimal.RequireFromString("100"), StartDate: date(2024, 1, 1), EndDate: &end, Active: true},
	}

	accrualSvc, _, _ := newTestServices(f)

	result, err := accrualSvc.GeneratePeriod(context.Background(), models.Period{Year: 2025, Month: 3})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)

	var skipped *GenerationDetail
	for i := range result.Details {
		if result.Details[i].Status == GenerationSkipped {
			skipped = &result.Details[i]
		}
	}
	assert.NotNil(t, skipped)
	assert.Equal(t, uint(2), skipped.PlanID)
	assert.Equal(t, "plan fuera de vigencia en el período", skipped.Reason)
}

func TestGeneratePeriod_InvalidMonth(t *testing.T) {
	f := newLedgerFixture()
	accrualSvc, _, _ := newTestServices(f)

	_, err := accrualSvc.GeneratePeriod(context.Background(), models.Period{Year: 2025, Month: 13})
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}

func TestGeneratePeriod_DefaultsToCurrentMonth(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	f.plans = []models.Plan{
		{ID: 1, ClientID: 1, Amount: decimal.RequireFromString("100"), StartDate: date(2020, 1, 1), Active: true},
	}

	accrualSvc, _, _ := newTestServices(f)

	result, err := accrualSvc.GeneratePeriod(context.Background(), models.Period{})
	assert.NoError(t, err)
	assert.Equal(t, models.CurrentPeriod(), result.Period)
	assert.Equal(t, 1, result.Created)
}

func TestBalance_MissingAccrualIsZero(t *testing.T) {
	f := newLedgerFixture()
	accrualSvc, _, _ := newTestServices(f)

	balance, err := accrualSvc.Balance(context.Background(), 999)
	assert.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBalance_NegativeClampsToZero(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	accrual := f.addAccrual(1, 2025, 1, "1000.00")
	f.adjustments = append(f.adjustments, models.Adjustment{
		ID: 1, ClientID: 1, AccrualID: &accrual.ID,
		Amount: decimal.RequireFromString("-1500.00"),
	})

	accrualSvc, _, _ := newTestServices(f)

	balance, err := accrualSvc.Balance(context.Background(), accrual.ID)
	assert.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBalance_IncludesAdjustmentsAndAllocations(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	accrual := f.addAccrual(1, 2025, 1, "1000.00")
	f.adjustments = append(f.adjustments, models.Adjustment{
		ID: 1, ClientID: 1, AccrualID: &accrual.ID,
		Amount: decimal.RequireFromString("200.00"),
	})
	f.allocations = append(f.allocations, models.PaymentAllocation{
		ID: 1, AccrualID: accrual.ID, PaymentID: 1,
		Amount: decimal.RequireFromString("700.00"),
	})

	accrualSvc, _, _ := newTestServices(f)

	balance, err := accrualSvc.Balance(context.Background(), accrual.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("500.00")), "got %s", balance)
}

func TestDeleteAccrual_RefusedWithReferences(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	accrual := f.addAccrual(1, 2025, 1, "1000.00")
	f.allocations = append(f.allocations, models.PaymentAllocation{
		ID: 1, AccrualID: accrual.ID, PaymentID: 1,
		Amount: decimal.RequireFromString("100.00"),
	})

	accrualSvc, _, _ := newTestServices(f)

	err := accrualSvc.Delete(context.Background(), 1, accrual.ID)
	assert.True(t, errors.Is(err, ErrHasReferences))
	assert.Contains(t, f.accruals, accrual.ID)
}
