package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/looplab/fsm"
)

// Plan lifecycle states
const (
	PlanStateActive   = "active"
	PlanStateInactive = "inactive"
	PlanStateEnded    = "ended"
)

// PlanFSM wraps a plan with its lifecycle state machine. Ended is
// terminal; a plan whose end date has passed can no longer be
// reactivated.
type PlanFSM struct {
	plan *models.Plan
	fsm  *fsm.FSM
}

// NewPlanFSM creates a new plan state machine
func NewPlanFSM(plan *models.Plan) *PlanFSM {
	pfsm := &PlanFSM{
		plan: plan,
	}

	pfsm.fsm = fsm.NewFSM(
		planState(plan),
		fsm.Events{
			// inactive → active
			{Name: "activate", Src: []string{PlanStateInactive}, Dst: PlanStateActive},

			// active → inactive
			{Name: "deactivate", Src: []string{PlanStateActive}, Dst: PlanStateInactive},

			// active/inactive → ended
			{Name: "end", Src: []string{PlanStateActive, PlanStateInactive}, Dst: PlanStateEnded},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// planState derives the lifecycle state from the plan's fields
func planState(plan *models.Plan) string {
	if plan.EndDate != nil && plan.EndDate.Before(time.Now()) {
		return PlanStateEnded
	}
	if plan.Active {
		return PlanStateActive
	}
	return PlanStateInactive
}

// Current returns the plan's lifecycle state
func (p *PlanFSM) Current() string {
	return p.fsm.Current()
}

// Activate transitions the plan to active
func (p *PlanFSM) Activate(ctx context.Context) error {
	if err := p.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("plan cannot be activated in current state: %s", p.fsm.Current())
	}

	p.plan.Active = true
	return nil
}

// Deactivate transitions the plan to inactive
func (p *PlanFSM) Deactivate(ctx context.Context) error {
	if err := p.fsm.Event(ctx, "deactivate"); err != nil {
		return fmt.Errorf("plan cannot be deactivated in current state: %s", p.fsm.Current())
	}

	p.plan.Active = false
	return nil
}

// End transitions the plan to ended, stamping the end date
func (p *PlanFSM) End(ctx context.Context, endDate time.Time) error {
	if err := p.fsm.Event(ctx, "end"); err != nil {
		return fmt.Errorf("plan cannot be ended in current state: %s", p.fsm.Current())
	}

	p.plan.EndDate = &endDate
	p.plan.Active = false
	return nil
}
