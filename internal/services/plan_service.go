package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/abonos-app/abonos-api/internal/statemachine"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlanService manages subscription plans
type PlanService struct {
	repo       repository.PlanRepository
	clientRepo repository.ClientRepository
	auditSvc   *AuditService
}

// NewPlanService creates a new plan service
func NewPlanService(repo repository.PlanRepository, clientRepo repository.ClientRepository, auditSvc *AuditService) *PlanService {
	return &PlanService{repo: repo, clientRepo: clientRepo, auditSvc: auditSvc}
}

// PlanInput carries the editable plan fields
type PlanInput struct {
	ClientID    uint            `json:"client_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
}

func (s *PlanService) validate(input PlanInput) error {
	if input.Amount.IsNegative() {
		return fmt.Errorf("%w: el importe mensual no puede ser negativo", ErrInvalidInput)
	}
	if input.StartDate.IsZero() {
		return fmt.Errorf("%w: la fecha de alta es obligatoria", ErrInvalidInput)
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: la fecha de baja no puede ser anterior al alta", ErrInvalidInput)
	}
	return nil
}

// Create registers a new plan for a client
func (s *PlanService) Create(ctx context.Context, userID uint, input PlanInput) (*models.Plan, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cliente %d", ErrNotFound, input.ClientID)
		}
		return nil, err
	}

	plan := &models.Plan{
		ClientID:    input.ClientID,
		Description: optional(strings.TrimSpace(input.Description)),
		Amount:      input.Amount,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Periodicity: models.PeriodicityMonthly,
		Active:      true,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "Plan", plan.ID,
		fmt.Sprintf("cliente %d, importe %s", plan.ClientID, plan.Amount.StringFixed(2)))
	return plan, nil
}

// Get returns one plan
func (s *PlanService) Get(ctx context.Context, id uint) (*models.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

// List returns plans matching the query
func (s *PlanService) List(ctx context.Context, query *repository.ListQuery) ([]models.Plan, int64, error) {
	return s.repo.List(ctx, query)
}

// Update modifies a plan's editable fields. The client association is
// fixed at creation.
func (s *PlanService) Update(ctx context.Context, userID, id uint, input PlanInput) (*models.Plan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validate(input); err != nil {
		return nil, err
	}

	plan.Description = optional(strings.TrimSpace(input.Description))
	plan.Amount = input.Amount
	plan.StartDate = input.StartDate
	plan.EndDate = input.EndDate

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "Plan", plan.ID, "")
	return plan, nil
}

// Activate reactivates a suspended plan. Plans past their end date
// cannot come back.
func (s *PlanService) Activate(ctx context.Context, userID, id uint) (*models.Plan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewPlanFSM(plan)
	if err := machine.Activate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "ACTIVATE", "Plan", plan.ID, "")
	return plan, nil
}

// Deactivate suspends a plan without ending it; generation skips it
// until reactivated
func (s *PlanService) Deactivate(ctx context.Context, userID, id uint) (*models.Plan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewPlanFSM(plan)
	if err := machine.Deactivate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "DEACTIVATE", "Plan", plan.ID, "")
	return plan, nil
}

// End terminates a plan as of endDate. A zero endDate means today.
func (s *PlanService) End(ctx context.Context, userID, id uint, endDate time.Time) (*models.Plan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if endDate.IsZero() {
		endDate = time.Now()
	}
	if endDate.Before(plan.StartDate) {
		return nil, fmt.Errorf("%w: la fecha de baja no puede ser anterior al alta", ErrInvalidInput)
	}

	machine := statemachine.NewPlanFSM(plan)
	if err := machine.End(ctx, endDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "END", "Plan", plan.ID, endDate.Format("2006-01-02"))
	return plan, nil
}

// Delete removes a plan. Refused while accruals reference it; end the
// plan instead to stop future billing.
func (s *PlanService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountAccruals(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: el abono tiene devengamientos generados", ErrHasReferences)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "DELETE", "Plan", id, "")
	return nil
}
