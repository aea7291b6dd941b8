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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService records payments and allocates them across
// outstanding accruals.
type PaymentService struct {
	repo       repository.PaymentRepository
	clientRepo repository.ClientRepository
	accrualSvc *AccrualService
	auditSvc   *AuditService
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repository.PaymentRepository, clientRepo repository.ClientRepository, accrualSvc *AccrualService, auditSvc *AuditService) *PaymentService {
	return &PaymentService{
		repo:       repo,
		clientRepo: clientRepo,
		accrualSvc: accrualSvc,
		auditSvc:   auditSvc,
	}
}

// Allocation modes
const (
	AllocationModeAutomatic = "automatic"
	AllocationModeManual    = "manual"
	AllocationModeNone      = "none"
)

// ManualDirective is one operator-specified (accrual, amount) pair
type ManualDirective struct {
	AccrualID uint            `json:"accrual_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Allocation outcome statuses
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
)

// AllocationOutcome reports what happened to one directive or accrual
// during allocation. Clamps are applied outcomes that carry a reason.
type AllocationOutcome struct {
	AccrualID uint            `json:"accrual_id"`
	Period    string          `json:"period,omitempty"`
	Requested decimal.Decimal `json:"requested"`
	Applied   decimal.Decimal `json:"applied"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
}

// AllocationResult aggregates one allocation run over a payment
type AllocationResult struct {
	PaymentID uint                `json:"payment_id"`
	Mode      string              `json:"mode"`
	Applied   decimal.Decimal     `json:"applied"`
	Remainder decimal.Decimal     `json:"remainder"`
	Outcomes  []AllocationOutcome `json:"outcomes"`
}

// RecordPaymentInput carries the fields for recording a payment
type RecordPaymentInput struct {
	ClientID   uint              `json:"client_id"`
	Date       time.Time         `json:"date"`
	Amount     decimal.Decimal   `json:"amount"`
	Method     string            `json:"method"`
	Reference  string            `json:"reference"`
	Note       string            `json:"note"`
	Mode       string            `json:"mode"`
	Directives []ManualDirective `json:"directives"`
}

// RecordPayment validates and stores a payment, then allocates it
// according to the requested mode. Mode "none" leaves the full amount
// unallocated for a later run.
func (s *PaymentService) RecordPayment(ctx context.Context, userID uint, input RecordPaymentInput) (*models.Payment, *AllocationResult, error) {
	if !input.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: el importe debe ser mayor a cero", ErrInvalidInput)
	}

	if _, err := s.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: cliente %d", ErrNotFound, input.ClientID)
		}
		return nil, nil, err
	}

	mode := input.Mode
	if mode == "" {
		mode = AllocationModeNone
	}
	switch mode {
	case AllocationModeAutomatic, AllocationModeManual, AllocationModeNone:
	default:
		return nil, nil, fmt.Errorf("%w: modo de imputación desconocido: %s", ErrInvalidInput, input.Mode)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		// Short receipt number derived from a v4 UUID
		reference = "REC-" + strings.ToUpper(uuid.NewString()[:8])
	}

	payment := &models.Payment{
		ClientID:  input.ClientID,
		Date:      date,
		Amount:    input.Amount,
		Reference: &reference,
	}
	if m := strings.TrimSpace(input.Method); m != "" {
		payment.Method = &m
	}
	if n := strings.TrimSpace(input.Note); n != "" {
		payment.Note = &n
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "Payment", payment.ID,
		fmt.Sprintf("cliente %d, importe %s", payment.ClientID, payment.Amount.StringFixed(2)))

	var result *AllocationResult
	var err error
	switch mode {
	case AllocationModeAutomatic:
		result, err = s.AllocateAutomatic(ctx, payment.ID)
	case AllocationModeManual:
		result, err = s.AllocateManual(ctx, payment.ID, input.Directives)
	default:
		result = &AllocationResult{
			PaymentID: payment.ID,
			Mode:      AllocationModeNone,
			Applied:   decimal.Zero,
			Remainder: payment.Amount,
		}
	}
	if err != nil {
		return payment, nil, err
	}

	return payment, result, nil
}

// AllocateAutomatic applies a payment's unallocated amount to the
// client's outstanding accruals, oldest period first, ties broken by
// creation order. It returns the unallocated remainder; a positive
// remainder means the client now holds a credit not tied to any
// accrual.
func (s *PaymentService) AllocateAutomatic(ctx context.Context, paymentID uint) (*AllocationResult, error) {
	payment, remaining, err := s.loadForAllocation(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	result := &AllocationResult{
		PaymentID: paymentID,
		Mode:      AllocationModeAutomatic,
		Applied:   decimal.Zero,
	}

	accruals, err := s.accrualSvc.repo.ListByClient(ctx, payment.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accruals: %w", err)
	}

	for i := range accruals {
		if effectivelyZero(remaining) {
			break
		}
		accrual := &accruals[i]

		balance, err := s.accrualSvc.Balance(ctx, accrual.ID)
		if err != nil {
			return nil, err
		}
		if effectivelyZero(balance) {
			continue
		}

		amount := decimal.Min(remaining, balance)
		allocation := &models.PaymentAllocation{
			AccrualID: accrual.ID,
			PaymentID: paymentID,
			Amount:    amount,
		}
		if err := s.repo.CreateAllocation(ctx, allocation); err != nil {
			return nil, fmt.Errorf("failed to create allocation: %w", err)
		}

		remaining = remaining.Sub(amount)
		result.Applied = result.Applied.Add(amount)
		result.Outcomes = append(result.Outcomes, AllocationOutcome{
			AccrualID: accrual.ID,
			Period:    accrual.Period().String(),
			Requested: amount,
			Applied:   amount,
			Status:    OutcomeApplied,
		})
	}

	result.Remainder = remaining
	if remaining.GreaterThan(epsilon) {
		logger.Warn("Payment not fully allocated",
			"payment_id", paymentID,
			"remainder", remaining.StringFixed(2))
	}

	return result, nil
}

// AllocateManual applies operator-specified amounts to specific
// accruals, in the order given. Each directive is clamped to the
// accrual's balance and then to the payment's remaining amount;
// non-positive amounts and unknown accruals are skipped with a reason,
// never failing the batch. Allocation stops once the payment's
// remaining amount is exhausted.
func (s *PaymentService) AllocateManual(ctx context.Context, paymentID uint, directives []ManualDirective) (*AllocationResult, error) {
	_, remaining, err := s.loadForAllocation(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	result := &AllocationResult{
		PaymentID: paymentID,
		Mode:      AllocationModeManual,
		Applied:   decimal.Zero,
	}

	for _, directive := range directives {
		outcome := AllocationOutcome{
			AccrualID: directive.AccrualID,
			Requested: directive.Amount,
			Applied:   decimal.Zero,
		}

		if !directive.Amount.IsPositive() {
			outcome.Status = OutcomeSkipped
			outcome.Reason = "el monto debe ser mayor a cero"
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		accrual, err := s.accrualSvc.repo.FindByID(ctx, directive.AccrualID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.Status = OutcomeSkipped
				outcome.Reason = "el devengamiento no existe"
				result.Outcomes = append(result.Outcomes, outcome)
				continue
			}
			return nil, err
		}
		outcome.Period = accrual.Period().String()

		balance, err := s.accrualSvc.Balance(ctx, accrual.ID)
		if err != nil {
			return nil, err
		}

		amount := directive.Amount
		if amount.GreaterThan(balance.Add(epsilon)) {
			amount = balance
			outcome.Reason = "monto ajustado al saldo del devengamiento"
		}
		if amount.GreaterThan(remaining.Add(epsilon)) {
			amount = remaining
			outcome.Reason = "monto ajustado al disponible del cobro"
		}

		if !amount.IsPositive() {
			outcome.Status = OutcomeSkipped
			if outcome.Reason == "" {
				outcome.Reason = "sin saldo pendiente"
			}
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		allocation := &models.PaymentAllocation{
			AccrualID: accrual.ID,
			PaymentID: paymentID,
			Amount:    amount,
		}
		if err := s.repo.CreateAllocation(ctx, allocation); err != nil {
			return nil, fmt.Errorf("failed to create allocation: %w", err)
		}

		remaining = remaining.Sub(amount)
		result.Applied = result.Applied.Add(amount)
		outcome.Status = OutcomeApplied
		outcome.Applied = amount
		result.Outcomes = append(result.Outcomes, outcome)

		if effectivelyZero(remaining) {
			break
		}
	}

	result.Remainder = remaining
	return result, nil
}

// loadForAllocation resolves a payment and its unallocated amount.
// A missing payment is a structural failure, not a per-item outcome.
func (s *PaymentService) loadForAllocation(ctx context.Context, paymentID uint) (*models.Payment, decimal.Decimal, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, fmt.Errorf("%w: cobro %d no existe", ErrAllocation, paymentID)
		}
		return nil, decimal.Zero, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	allocated, err := s.repo.SumAllocated(ctx, paymentID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	return payment, payment.Amount.Sub(allocated), nil
}

// Get returns one payment with its allocations
func (s *PaymentService) Get(ctx context.Context, id uint) (*models.Payment, []models.PaymentAllocation, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	allocations, err := s.repo.ListAllocations(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return payment, allocations, nil
}

// List returns payments matching the query
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// Delete removes a payment. Refused while allocations exist; delete the
// allocations first or the balances would silently change.
func (s *PaymentService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	count, err := s.repo.CountAllocations(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: el cobro tiene imputaciones aplicadas", ErrHasReferences)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "DELETE", "Payment", id, "")
	return nil
}
