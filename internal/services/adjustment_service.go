package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/abonos-app/abonos-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdjustmentService records manual corrections against client ledgers
type AdjustmentService struct {
	repo        repository.AdjustmentRepository
	clientRepo  repository.ClientRepository
	accrualRepo repository.AccrualRepository
	auditSvc    *AuditService
}

// NewAdjustmentService creates a new adjustment service
func NewAdjustmentService(repo repository.AdjustmentRepository, clientRepo repository.ClientRepository, accrualRepo repository.AccrualRepository, auditSvc *AuditService) *AdjustmentService {
	return &AdjustmentService{
		repo:        repo,
		clientRepo:  clientRepo,
		accrualRepo: accrualRepo,
		auditSvc:    auditSvc,
	}
}

// RecordAdjustmentInput carries the fields for recording an adjustment
type RecordAdjustmentInput struct {
	ClientID    uint            `json:"client_id"`
	AccrualID   *uint           `json:"accrual_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// Record validates and stores an adjustment. The amount's sign is
// normalized by category: credit categories always subtract from the
// balance, debit categories always add, and "otro" keeps the sign as
// entered. A reference to a missing accrual is cleared rather than
// rejected; the second return reports whether that happened.
func (s *AdjustmentService) Record(ctx context.Context, userID uint, input RecordAdjustmentInput) (*models.Adjustment, bool, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, false, fmt.Errorf("%w: la descripción es obligatoria", ErrInvalidInput)
	}
	if input.Amount.IsZero() {
		return nil, false, fmt.Errorf("%w: el importe no puede ser cero", ErrInvalidInput)
	}

	if _, err := s.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: cliente %d", ErrNotFound, input.ClientID)
		}
		return nil, false, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = models.AdjustmentOther
	}
	if !models.ValidAdjustmentCategory(category) {
		return nil, false, fmt.Errorf("%w: categoría desconocida: %s", ErrInvalidInput, input.Category)
	}

	amount := normalizeSign(input.Amount, category)

	accrualID := input.AccrualID
	referenceCleared := false
	if accrualID != nil {
		if _, err := s.accrualRepo.FindByID(ctx, *accrualID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, err
			}
			logger.Warn("Adjustment references a missing accrual, clearing reference",
				"client_id", input.ClientID,
				"accrual_id", *accrualID)
			accrualID = nil
			referenceCleared = true
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	adjustment := &models.Adjustment{
		ClientID:    input.ClientID,
		AccrualID:   accrualID,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, adjustment); err != nil {
		return nil, false, fmt.Errorf("failed to create adjustment: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "Adjustment", adjustment.ID,
		fmt.Sprintf("cliente %d, %s %s", adjustment.ClientID, adjustment.Category, adjustment.Amount.StringFixed(2)))

	return adjustment, referenceCleared, nil
}

// normalizeSign forces the amount's sign to match its category
func normalizeSign(amount decimal.Decimal, category string) decimal.Decimal {
	switch category {
	case models.AdjustmentBonus, models.AdjustmentCreditNote:
		return amount.Abs().Neg()
	case models.AdjustmentSurcharge, models.AdjustmentExtra, models.AdjustmentDebitNote:
		return amount.Abs()
	default:
		return amount
	}
}

// Get returns one adjustment
func (s *AdjustmentService) Get(ctx context.Context, id uint) (*models.Adjustment, error) {
	adjustment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return adjustment, nil
}

// List returns adjustments matching the query
func (s *AdjustmentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Adjustment, int64, error) {
	return s.repo.List(ctx, query)
}

// Delete removes an adjustment
func (s *AdjustmentService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "DELETE", "Adjustment", id, "")
	return nil
}
