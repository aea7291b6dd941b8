package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreatePlan_ZeroAmountAllowed(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	planSvc := newTestPlanService(f)

	plan, err := planSvc.Create(context.Background(), 1, PlanInput{
		ClientID:  1,
		Amount:    decimal.Zero,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	assert.True(t, plan.Amount.IsZero())
	assert.True(t, plan.Active)
}

func TestCreatePlan_NegativeAmountRejected(t *testing.T) {
	f := newLedgerFixture()
	f.addClient(1, "Cliente A")
	planSvc := newTestPlanService(f)

	_, err := planSvc.Create(context.Background(), 1, PlanInput{
		ClientID:  1,
		Amount:    decimal.RequireFromString("-100"),
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCreatePlan_UnknownClient(t *testing.T) {
	f := newLedgerFixture()
	planSvc := newTestPlanService(f)

	_, err := planSvc.Create(context.Background(), 1, PlanInput{
		ClientID:  99,
		Amount:    decimal.RequireFromString("500"),
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}
