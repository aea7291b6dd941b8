package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/abonos-app/abonos-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccrualService generates periodic accruals from billable plans and
// computes outstanding balances.
type AccrualService struct {
	repo     repository.AccrualRepository
	planRepo repository.PlanRepository
	auditSvc *AuditService
}

// NewAccrualService creates a new accrual service
func NewAccrualService(repo repository.AccrualRepository, planRepo repository.PlanRepository, auditSvc *AuditService) *AccrualService {
	return &AccrualService{
		repo:     repo,
		planRepo: planRepo,
		auditSvc: auditSvc,
	}
}

// Generation detail statuses
const (
	GenerationCreated = "created"
	GenerationSkipped = "skipped"
	GenerationError   = "error"
)

// GenerationDetail reports the outcome for one plan during generation
type GenerationDetail struct {
	PlanID     uint            `json:"plan_id"`
	ClientID   uint            `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	Status     string          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	AccrualID  uint            `json:"accrual_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// GenerationResult aggregates one generation run
type GenerationResult struct {
	Period  models.Period      `json:"period"`
	Created int                `json:"created"`
	Skipped int                `json:"skipped"`
	Errors  int                `json:"errors"`
	Details []GenerationDetail `json:"details"`
}

// GeneratePeriod creates at most one accrual per billable plan for the
// given period. A zero month or year defaults to the current one. Plans
// out of force and periods already generated are skipped; a failure on
// one plan is recorded and does not abort the remaining plans. Running
// the same period twice creates nothing on the second run.
func (s *AccrualService) GeneratePeriod(ctx context.Context, period models.Period) (*GenerationResult, error) {
	current := models.CurrentPeriod()
	if period.Month == 0 {
		period.Month = current.Month
	}
	if period.Year == 0 {
		period.Year = current.Year
	}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: el mes debe estar entre 1 y 12", ErrInvalidPeriod)
	}

	plans, err := s.planRepo.FindBillable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load billable plans: %w", err)
	}

	result := &GenerationResult{Period: period}

	for i := range plans {
		plan := &plans[i]
		detail := GenerationDetail{
			PlanID:     plan.ID,
			ClientID:   plan.ClientID,
			ClientName: plan.Client.Name,
			Amount:     plan.Amount,
		}

		if !plan.InForce(period) {
			detail.Status = GenerationSkipped
			detail.Reason = "plan fuera de vigencia en el período"
			result.Skipped++
			result.Details = append(result.Details, detail)
			continue
		}

		exists, err := s.repo.ExistsForPeriod(ctx, plan.ClientID, plan.ID, period)
		if err != nil {
			detail.Status = GenerationError
			detail.Reason = err.Error()
			result.Errors++
			result.Details = append(result.Details, detail)
			logger.Error("Accrual existence check failed", "plan_id", plan.ID, "error", err)
			continue
		}
		if exists {
			detail.Status = GenerationSkipped
			detail.Reason = "período ya generado"
			result.Skipped++
			result.Details = append(result.Details, detail)
			continue
		}

		planID := plan.ID
		accrual := &models.Accrual{
			ClientID:    plan.ClientID,
			PlanID:      &planID,
			PeriodYear:  period.Year,
			PeriodMonth: period.Month,
			Amount:      plan.Amount,
			AccruedAt:   period.End(),
		}

		if err := s.repo.Create(ctx, accrual); err != nil {
			if errors.Is(err, repository.ErrDuplicateAccrual) {
				// Lost the race against a concurrent run; same outcome
				// as the existence check.
				detail.Status = GenerationSkipped
				detail.Reason = "período ya generado"
				result.Skipped++
			} else {
				detail.Status = GenerationError
				detail.Reason = err.Error()
				result.Errors++
				logger.Error("Accrual insert failed", "plan_id", plan.ID, "error", err)
			}
			result.Details = append(result.Details, detail)
			continue
		}

		detail.Status = GenerationCreated
		detail.AccrualID = accrual.ID
		result.Created++
		result.Details = append(result.Details, detail)
	}

	logger.Info("Accruals generated",
		"period", period.String(),
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", result.Errors)

	return result, nil
}

// Balance computes the outstanding amount of one accrual:
// max(0, amount + adjustments - allocations). A missing accrual yields
// zero.
func (s *AccrualService) Balance(ctx context.Context, accrualID uint) (decimal.Decimal, error) {
	accrual, err := s.repo.FindByID(ctx, accrualID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	allocated, err := s.repo.SumAllocations(ctx, accrualID)
	if err != nil {
		return decimal.Zero, err
	}

	adjusted, err := s.repo.SumAdjustments(ctx, accrualID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := accrual.Amount.Add(adjusted).Sub(allocated)
	if balance.IsNegative() {
		return decimal.Zero, nil
	}
	return balance, nil
}

// Get returns one accrual with its computed balance
func (s *AccrualService) Get(ctx context.Context, id uint) (*models.Accrual, decimal.Decimal, error) {
	accrual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, ErrNotFound
		}
		return nil, decimal.Zero, err
	}

	balance, err := s.Balance(ctx, id)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return accrual, balance, nil
}

// List returns accruals matching the query
func (s *AccrualService) List(ctx context.Context, query *repository.ListQuery) ([]models.Accrual, int64, error) {
	return s.repo.List(ctx, query)
}

// Delete removes an accrual. Refused while payment allocations or
// adjustments still reference it.
func (s *AccrualService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	allocations, err := s.repo.CountAllocations(ctx, id)
	if err != nil {
		return err
	}
	refs, err := s.repo.CountAdjustmentRefs(ctx, id)
	if err != nil {
		return err
	}
	if allocations > 0 || refs > 0 {
		return fmt.Errorf("%w: el devengamiento tiene cobros o ajustes aplicados", ErrHasReferences)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "DELETE", "Accrual", id, "")
	return nil
}
