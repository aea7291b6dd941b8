package services

import (
	"context"
	"sort"
	"sync"

	"github.com/abonos-app/abonos-api/internal/jobs"
	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ledgerFixture is a shared in-memory store behind the fake
// repositories, so allocations created through the payment repo are
// visible to accrual balance sums.
type ledgerFixture struct {
	clients     map[uint]*models.Client
	plans       []models.Plan
	accruals    map[uint]*models.Accrual
	payments    map[uint]*models.Payment
	allocations []models.PaymentAllocation
	adjustments []models.Adjustment
	auditLog    []models.AuditLog

	nextAccrualID    uint
	nextPaymentID    uint
	nextAllocationID uint
	nextAdjustmentID uint
}

func newLedgerFixture() *ledgerFixture {
	return &ledgerFixture{
		clients:  make(map[uint]*models.Client),
		accruals: make(map[uint]*models.Accrual),
		payments: make(map[uint]*models.Payment),
	}
}

func (f *ledgerFixture) addClient(id uint, name string) *models.Client {
	client := &models.Client{ID: id, Name: name, Active: true}
	f.clients[id] = client
	return client
}

func (f *ledgerFixture) addAccrual(clientID uint, year, month int, amount string) *models.Accrual {
	f.nextAccrualID++
	planID := f.nextAccrualID
	accrual := &models.Accrual{
		ID:          f.nextAccrualID,
		ClientID:    clientID,
		PlanID:      &planID,
		PeriodYear:  year,
		PeriodMonth: month,
		Amount:      decimal.RequireFromString(amount),
		AccruedAt:   models.Period{Year: year, Month: month}.End(),
	}
	f.accruals[accrual.ID] = accrual
	return accrual
}

// Fake repositories over the shared fixture

type fakeAccrualRepo struct {
	repository.AccrualRepository
	f *ledgerFixture
}

func (r *fakeAccrualRepo) FindByID(ctx context.Context, id uint) (*models.Accrual, error) {
	accrual, ok := r.f.accruals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return accrual, nil
}

func (r *fakeAccrualRepo) Create(ctx context.Context, accrual *models.Accrual) error {
	for _, existing := range r.f.accruals {
		if existing.ClientID == accrual.ClientID &&
			existing.PlanID != nil && accrual.PlanID != nil && *existing.PlanID == *accrual.PlanID &&
			existing.PeriodYear == accrual.PeriodYear && existing.PeriodMonth == accrual.PeriodMonth {
			return repository.ErrDuplicateAccrual
		}
	}
	r.f.nextAccrualID++
	accrual.ID = r.f.nextAccrualID
	r.f.accruals[accrual.ID] = accrual
	return nil
}

func (r *fakeAccrualRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.accruals, id)
	return nil
}

func (r *fakeAccrualRepo) ExistsForPeriod(ctx context.Context, clientID, planID uint, period models.Period) (bool, error) {
	for _, a := range r.f.accruals {
		if a.ClientID == clientID && a.PlanID != nil && *a.PlanID == planID &&
			a.PeriodYear == period.Year && a.PeriodMonth == period.Month {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccrualRepo) ListByClient(ctx context.Context, clientID uint) ([]models.Accrual, error) {
	var accruals []models.Accrual
	for _, a := range r.f.accruals {
		if a.ClientID == clientID {
			accruals = append(accruals, *a)
		}
	}
	sort.Slice(accruals, func(i, j int) bool {
		if accruals[i].PeriodYear != accruals[j].PeriodYear {
			return accruals[i].PeriodYear < accruals[j].PeriodYear
		}
		if accruals[i].PeriodMonth != accruals[j].PeriodMonth {
			return accruals[i].PeriodMonth < accruals[j].PeriodMonth
		}
		return accruals[i].ID < accruals[j].ID
	})
	return accruals, nil
}

func (r *fakeAccrualRepo) SumAllocations(ctx context.Context, accrualID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.f.allocations {
		if a.AccrualID == accrualID {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}

func (r *fakeAccrualRepo) SumAdjustments(ctx context.Context, accrualID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, adj := range r.f.adjustments {
		if adj.AccrualID != nil && *adj.AccrualID == accrualID {
			total = total.Add(adj.Amount)
		}
	}
	return total, nil
}

func (r *fakeAccrualRepo) CountAllocations(ctx context.Context, accrualID uint) (int64, error) {
	var count int64
	for _, a := range r.f.allocations {
		if a.AccrualID == accrualID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAccrualRepo) CountAdjustmentRefs(ctx context.Context, accrualID uint) (int64, error) {
	var count int64
	for _, adj := range r.f.adjustments {
		if adj.AccrualID != nil && *adj.AccrualID == accrualID {
			count++
		}
	}
	return count, nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	f *ledgerFixture
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, ok := r.f.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	r.f.nextPaymentID++
	payment.ID = r.f.nextPaymentID
	r.f.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.payments, id)
	return nil
}

func (r *fakePaymentRepo) CreateAllocation(ctx context.Context, allocation *models.PaymentAllocation) error {
	r.f.nextAllocationID++
	allocation.ID = r.f.nextAllocationID
	r.f.allocations = append(r.f.allocations, *allocation)
	return nil
}

func (r *fakePaymentRepo) ListAllocations(ctx context.Context, paymentID uint) ([]models.PaymentAllocation, error) {
	var allocations []models.PaymentAllocation
	for _, a := range r.f.allocations {
		if a.PaymentID == paymentID {
			allocations = append(allocations, a)
		}
	}
	return allocations, nil
}

func (r *fakePaymentRepo) SumAllocated(ctx context.Context, paymentID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.f.allocations {
		if a.PaymentID == paymentID {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) CountAllocations(ctx context.Context, paymentID uint) (int64, error) {
	var count int64
	for _, a := range r.f.allocations {
		if a.PaymentID == paymentID {
			count++
		}
	}
	return count, nil
}

type fakeClientRepo struct {
	repository.ClientRepository
	f *ledgerFixture
}

func (r *fakeClientRepo) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	client, ok := r.f.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return client, nil
}

type fakePlanRepo struct {
	repository.PlanRepository
	f *ledgerFixture
}

func (r *fakePlanRepo) FindBillable(ctx context.Context) ([]models.Plan, error) {
	return r.f.plans, nil
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *models.Plan) error {
	plan.ID = uint(len(r.f.plans) + 1)
	r.f.plans = append(r.f.plans, *plan)
	return nil
}

type fakeAdjustmentRepo struct {
	repository.AdjustmentRepository
	f *ledgerFixture
}

func (r *fakeAdjustmentRepo) Create(ctx context.Context, adjustment *models.Adjustment) error {
	r.f.nextAdjustmentID++
	adjustment.ID = r.f.nextAdjustmentID
	r.f.adjustments = append(r.f.adjustments, *adjustment)
	return nil
}

func (r *fakeAdjustmentRepo) FindByID(ctx context.Context, id uint) (*models.Adjustment, error) {
	for i := range r.f.adjustments {
		if r.f.adjustments[i].ID == id {
			return &r.f.adjustments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAuditRepo struct {
	repository.AuditRepository
	f  *ledgerFixture
	mu sync.Mutex
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.f.auditLog = append(r.f.auditLog, *entry)
	return nil
}

// newTestServices wires the ledger services over one shared fixture
func newTestServices(f *ledgerFixture) (*AccrualService, *PaymentService, *AdjustmentService) {
	auditSvc := newTestAuditService(f)
	accrualSvc := NewAccrualService(&fakeAccrualRepo{f: f}, &fakePlanRepo{f: f}, auditSvc)
	paymentSvc := NewPaymentService(&fakePaymentRepo{f: f}, &fakeClientRepo{f: f}, accrualSvc, auditSvc)
	adjustmentSvc := NewAdjustmentService(&fakeAdjustmentRepo{f: f}, &fakeClientRepo{f: f}, &fakeAccrualRepo{f: f}, auditSvc)
	return accrualSvc, paymentSvc, adjustmentSvc
}

// newTestAuditService builds an audit service over the fixture. Zero
// processors because EnqueueAsync spawns its own goroutines.
func newTestAuditService(f *ledgerFixture) *AuditService {
	return NewAuditService(&fakeAuditRepo{f: f}, jobs.NewWorker(0))
}

func newTestPlanService(f *ledgerFixture) *PlanService {
	return NewPlanService(&fakePlanRepo{f: f}, &fakeClientRepo{f: f}, newTestAuditService(f))
}
