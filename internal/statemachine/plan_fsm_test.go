package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPlan(active bool) *models.Plan {
	return &models.Plan{
		ID:        1,
		ClientID:  1,
		Amount:    decimal.RequireFromString("1000.00"),
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:    active,
	}
}

func TestPlanFSM_ActivateFromInactive(t *testing.T) {
	plan := testPlan(false)
	pfsm := NewPlanFSM(plan)
	assert.Equal(t, PlanStateInactive, pfsm.Current())

	err := pfsm.Activate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, PlanStateActive, pfsm.Current())
	assert.True(t, plan.Active)
}

func TestPlanFSM_ActivateFromActiveFails(t *testing.T) {
	plan := testPlan(true)
	pfsm := NewPlanFSM(plan)

	err := pfsm.Activate(context.Background())
	assert.Error(t, err)
	assert.Equal(t, PlanStateActive, pfsm.Current())
}

func TestPlanFSM_Deactivate(t *testing.T) {
	plan := testPlan(true)
	pfsm := NewPlanFSM(plan)

	err := pfsm.Deactivate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, PlanStateInactive, pfsm.Current())
	assert.False(t, plan.Active)

	err = pfsm.Deactivate(context.Background())
	assert.Error(t, err)
}

func TestPlanFSM_EndStampsDate(t *testing.T) {
	plan := testPlan(true)
	pfsm := NewPlanFSM(plan)

	endDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	err := pfsm.End(context.Background(), endDate)
	assert.NoError(t, err)
	assert.Equal(t, PlanStateEnded, pfsm.Current())
	assert.False(t, plan.Active)
	assert.NotNil(t, plan.EndDate)
	assert.True(t, plan.EndDate.Equal(endDate))
}

func TestPlanFSM_EndedIsTerminal(t *testing.T) {
	past := time.Now().AddDate(0, -1, 0)
	plan := testPlan(true)
	plan.EndDate = &past

	pfsm := NewPlanFSM(plan)
	assert.Equal(t, PlanStateEnded, pfsm.Current())

	assert.Error(t, pfsm.Activate(context.Background()))
	assert.Error(t, pfsm.Deactivate(context.Background()))
	assert.Error(t, pfsm.End(context.Background(), time.Now()))
}
