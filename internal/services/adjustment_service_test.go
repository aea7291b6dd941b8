package services

import (
	"context"
	"errors"
	"testing"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordAdjustment_Validation(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	_, _, adjustmentSvc := newTestServices(f)

	_, _, err := adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("100"),
	})
	assert.True(t, errors.Is(err, ErrInvalidInput), "empty description")

	_, _, err = adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		Amount:      decimal.Zero,
		Description: "Ajuste manual",
	})
	assert.True(t, errors.Is(err, ErrInvalidInput), "zero amount")

	_, _, err = adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    99,
		Amount:      decimal.RequireFromString("100"),
		Description: "Ajuste manual",
	})
	assert.True(t, errors.Is(err, ErrNotFound), "unknown client")

	_, _, err = adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		Amount:      decimal.RequireFromString("100"),
		Category:    "descuento_magico",
		Description: "Ajuste manual",
	})
	assert.True(t, errors.Is(err, ErrInvalidInput), "unknown category")
}

func TestRecordAdjustment_DefaultCategory(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	_, _, adjustmentSvc := newTestServices(f)

	adjustment, cleared, err := adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		Amount:      decimal.RequireFromString("-75.00"),
		Description: "Ajuste manual",
	})
	assert.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, models.AdjustmentOther, adjustment.Category)
	// "otro" keeps the sign as entered
	assert.True(t, adjustment.Amount.Equal(decimal.RequireFromString("-75.00")))
}

func TestRecordAdjustment_SignNormalization(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	_, _, adjustmentSvc := newTestServices(f)

	bonus, _, err := adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		Amount:      decimal.RequireFromString("120.00"),
		Category:    models.AdjustmentBonus,
		Description: "Descuento por pronto pago",
	})
	assert.NoError(t, err)
	assert.True(t, bonus.Amount.Equal(decimal.RequireFromString("-120.00")))

	surcharge, _, err := adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		Amount:      decimal.RequireFromString("-40.00"),
		Category:    models.AdjustmentSurcharge,
		Description: "Recargo por mora",
	})
	assert.NoError(t, err)
	assert.True(t, surcharge.Amount.Equal(decimal.RequireFromString("40.00")))
}

func TestRecordAdjustment_MissingAccrualReferenceCleared(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	_, _, adjustmentSvc := newTestServices(f)

	missing := uint(404)
	adjustment, cleared, err := adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		AccrualID:   &missing,
		Amount:      decimal.RequireFromString("50.00"),
		Category:    models.AdjustmentExtra,
		Description: "Servicio adicional",
	})
	assert.NoError(t, err)
	assert.True(t, cleared)
	assert.Nil(t, adjustment.AccrualID)
}

func TestRecordAdjustment_KeepsValidAccrualReference(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	accrual := f.addAccrual(1, 2025, 3, "500.00")
	_, _, adjustmentSvc := newTestServices(f)

	adjustment, cleared, err := adjustmentSvc.Record(context.Background(), 1, RecordAdjustmentInput{
		ClientID:    1,
		AccrualID:   &accrual.ID,
		Amount:      decimal.RequireFromString("30.00"),
		Category:    models.AdjustmentCreditNote,
		Description: "Nota de crédito",
	})
	assert.NoError(t, err)
	assert.False(t, cleared)
	assert.NotNil(t, adjustment.AccrualID)
	assert.Equal(t, accrual.ID, *adjustment.AccrualID)
}
