package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordPayment_RejectsNonPositiveAmount(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	_, paymentSvc, _ := newTestServices(f)

	_, _, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.Zero,
	})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, _, err = paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("-50"),
	})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRecordPayment_UnknownClient(t *testing.T) {
	f := newLedgerFixture()
	_, paymentSvc, _ := newTestServices(f)

	_, _, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 99,
		Amount:   decimal.RequireFromString("100"),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordPayment_GeneratesReceiptReference(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	_, paymentSvc, _ := newTestServices(f)

	payment, result, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("100"),
	})
	assert.NoError(t, err)
	assert.NotNil(t, payment.Reference)
	assert.True(t, strings.HasPrefix(*payment.Reference, "REC-"))
	assert.Equal(t, AllocationModeNone, result.Mode)
	assert.True(t, result.Remainder.Equal(payment.Amount))
}

func TestAllocateAutomatic_RemainderWhenPaymentExceedsDebt(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	f.addAccrual(1, 2025, 1, "1000.00")
	_, paymentSvc, _ := newTestServices(f)

	_, result, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("1500.00"),
		Mode:     AllocationModeAutomatic,
	})
	assert.NoError(t, err)
	assert.True(t, result.Applied.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, result.Remainder.Equal(decimal.RequireFromString("500.00")))
	assert.Len(t, result.Outcomes, 1)
}

func TestAllocateAutomatic_OldestFirst(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	older := f.addAccrual(1, 2025, 1, "500.00")
	newer := f.addAccrual(1, 2025, 2, "500.00")
	_, paymentSvc, _ := newTestServices(f)

	_, result, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("600.00"),
		Mode:     AllocationModeAutomatic,
	})
	assert.NoError(t, err)
	assert.Len(t, result.Outcomes, 2)
	assert.Equal(t, older.ID, result.Outcomes[0].AccrualID)
	assert.True(t, result.Outcomes[0].Applied.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, newer.ID, result.Outcomes[1].AccrualID)
	assert.True(t, result.Outcomes[1].Applied.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, result.Remainder.IsZero())
}

func TestAllocateAutomatic_SkipsSettledAccruals(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	settled := f.addAccrual(1, 2025, 1, "300.00")
	f.allocations = append(f.allocations, models.PaymentAllocation{
		ID: 99, AccrualID: settled.ID, PaymentID: 99,
		Amount: decimal.RequireFromString("300.00"),
	})
	open := f.addAccrual(1, 2025, 2, "400.00")
	_, paymentSvc, _ := newTestServices(f)

	_, result, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("400.00"),
		Mode:     AllocationModeAutomatic,
	})
	assert.NoError(t, err)
	assert.Len(t, result.Outcomes, 1)
	assert.Equal(t, open.ID, result.Outcomes[0].AccrualID)
	assert.True(t, result.Remainder.IsZero())
}

func TestAllocateAutomatic_ConservesAmounts(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	f.addAccrual(1, 2024, 11, "250.50")
	f.addAccrual(1, 2024, 12, "250.50")
	f.addAccrual(1, 2025, 1, "250.50")
	_, paymentSvc, _ := newTestServices(f)

	payment, result, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("600.00"),
		Mode:     AllocationModeAutomatic,
	})
	assert.NoError(t, err)

	total := result.Remainder
	for _, outcome := range result.Outcomes {
		total = total.Add(outcome.Applied)
	}
	assert.True(t, total.Equal(payment.Amount), "applied+remainder=%s amount=%s", total, payment.Amount)
}

func TestAllocateAutomatic_MissingPayment(t *testing.T) {
	f := newLedgerFixture()
	_, paymentSvc, _ := newTestServices(f)

	_, err := paymentSvc.AllocateAutomatic(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrAllocation))
}

func TestAllocateManual_ClampsToBalanceThenRemaining(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	accrual := f.addAccrual(1, 2025, 1, "300.00")
	_, paymentSvc, _ := newTestServices(f)

	payment, _, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("800.00"),
	})
	assert.NoError(t, err)

	// Asking for 1000 against a 300 balance applies 300
	result, err := paymentSvc.AllocateManual(context.Background(), payment.ID, []ManualDirective{
		{AccrualID: accrual.ID, Amount: decimal.RequireFromString("1000.00")},
	})
	assert.NoError(t, err)
	assert.Len(t, result.Outcomes, 1)
	assert.Equal(t, OutcomeApplied, result.Outcomes[0].Status)
	assert.True(t, result.Outcomes[0].Applied.Equal(decimal.RequireFromString("300.00")))
	assert.NotEmpty(t, result.Outcomes[0].Reason)
	assert.True(t, result.Remainder.Equal(decimal.RequireFromString("500.00")))
}

func TestAllocateManual_SkipsBadDirectives(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	settled := f.addAccrual(1, 2025, 1, "200.00")
	f.allocations = append(f.allocations, models.PaymentAllocation{
		ID: 99, AccrualID: settled.ID, PaymentID: 99,
		Amount: decimal.RequireFromString("200.00"),
	})
	open := f.addAccrual(1, 2025, 2, "200.00")
	_, paymentSvc, _ := newTestServices(f)

	payment, _, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("500.00"),
	})
	assert.NoError(t, err)

	result, err := paymentSvc.AllocateManual(context.Background(), payment.ID, []ManualDirective{
		{AccrualID: open.ID, Amount: decimal.RequireFromString("-10")},
		{AccrualID: 777, Amount: decimal.RequireFromString("50")},
		{AccrualID: settled.ID, Amount: decimal.RequireFromString("50")},
		{AccrualID: open.ID, Amount: decimal.RequireFromString("150")},
	})
	assert.NoError(t, err)
	assert.Len(t, result.Outcomes, 4)
	assert.Equal(t, OutcomeSkipped, result.Outcomes[0].Status)
	assert.Equal(t, OutcomeSkipped, result.Outcomes[1].Status)
	assert.Equal(t, OutcomeSkipped, result.Outcomes[2].Status)
	assert.Equal(t, OutcomeApplied, result.Outcomes[3].Status)
	assert.True(t, result.Applied.Equal(decimal.RequireFromString("150")))
	assert.True(t, result.Remainder.Equal(decimal.RequireFromString("350")))
}

func TestAllocateManual_StopsWhenPaymentExhausted(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	first := f.addAccrual(1, 2025, 1, "100.00")
	second := f.addAccrual(1, 2025, 2, "100.00")
	_, paymentSvc, _ := newTestServices(f)

	payment, _, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("100.00"),
	})
	assert.NoError(t, err)

	result, err := paymentSvc.AllocateManual(context.Background(), payment.ID, []ManualDirective{
		{AccrualID: first.ID, Amount: decimal.RequireFromString("100.00")},
		{AccrualID: second.ID, Amount: decimal.RequireFromString("100.00")},
	})
	assert.NoError(t, err)
	assert.Len(t, result.Outcomes, 1)
	assert.True(t, result.Remainder.IsZero())
}

func TestDeletePayment_RefusedWithAllocations(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	f.addAccrual(1, 2025, 1, "100.00")
	_, paymentSvc, _ := newTestServices(f)

	payment, _, err := paymentSvc.RecordPayment(context.Background(), 1, RecordPaymentInput{
		ClientID: 1,
		Amount:   decimal.RequireFromString("100.00"),
		Mode:     AllocationModeAutomatic,
	})
	assert.NoError(t, err)

	err = paymentSvc.Delete(context.Background(), 1, payment.ID)
	assert.True(t, errors.Is(err, ErrHasReferences))
}
