package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/shopspring/decimal"
)

// ReportService builds the dashboard and the operational reports
type ReportService struct {
	repo           repository.ReportRepository
	clientRepo     repository.ClientRepository
	accrualRepo    repository.AccrualRepository
	paymentRepo    repository.PaymentRepository
	adjustmentRepo repository.AdjustmentRepository
	accrualSvc     *AccrualService
}

// NewReportService creates a new report service
func NewReportService(
	repo repository.ReportRepository,
	clientRepo repository.ClientRepository,
	accrualRepo repository.AccrualRepository,
	paymentRepo repository.PaymentRepository,
	adjustmentRepo repository.AdjustmentRepository,
	accrualSvc *AccrualService,
) *ReportService {
	return &ReportService{
		repo:           repo,
		clientRepo:     clientRepo,
		accrualRepo:    accrualRepo,
		paymentRepo:    paymentRepo,
		adjustmentRepo: adjustmentRepo,
		accrualSvc:     accrualSvc,
	}
}

// Dashboard returns the headline metrics for the current month
func (s *ReportService) Dashboard(ctx context.Context) (*models.DashboardMetrics, error) {
	metrics := &models.DashboardMetrics{}
	period := models.CurrentPeriod()

	var err error
	if metrics.ActiveClients, err = s.repo.CountActiveClients(ctx); err != nil {
		return nil, err
	}
	if metrics.ActivePlans, err = s.repo.CountActivePlans(ctx); err != nil {
		return nil, err
	}
	if metrics.AccruedThisMonth, err = s.repo.AccruedInPeriod(ctx, period); err != nil {
		return nil, err
	}
	if metrics.CollectedThisMonth, err = s.repo.CollectedSince(ctx, period.Start()); err != nil {
		return nil, err
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	metrics.TotalOutstanding = totals.Outstanding()
	if metrics.TotalOutstanding.IsNegative() {
		metrics.TotalOutstanding = decimal.Zero
	}

	if metrics.ClientsWithBalance, err = s.repo.CountClientsWithBalance(ctx); err != nil {
		return nil, err
	}

	return metrics, nil
}

// Statement builds a client's account statement: every accrual,
// adjustment and payment in date order with a running balance. Debits
// increase the balance, credits decrease it.
func (s *ReportService) Statement(ctx context.Context, clientID uint) (*models.AccountStatement, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, ErrNotFound
	}

	accruals, err := s.accrualRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.adjustmentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	events := make([]models.StatementEvent, 0, len(accruals)+len(adjustments)+len(payments))

	for i := range accruals {
		a := &accruals[i]
		events = append(events, models.StatementEvent{
			Date:        a.AccruedAt,
			Kind:        models.StatementKindAccrual,
			Description: fmt.Sprintf("Devengamiento %s", a.Period()),
			Debit:       a.Amount,
			Credit:      decimal.Zero,
		})
	}

	for i := range adjustments {
		adj := &adjustments[i]
		event := models.StatementEvent{
			Date:        adj.Date,
			Kind:        models.StatementKindAdjustment,
			Description: fmt.Sprintf("Ajuste (%s): %s", adj.Category, adj.Description),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if adj.Amount.IsNegative() {
			event.Credit = adj.Amount.Abs()
		} else {
			event.Debit = adj.Amount
		}
		events = append(events, event)
	}

	for i := range payments {
		p := &payments[i]
		description := "Cobro"
		if p.Reference != nil {
			description = fmt.Sprintf("Cobro %s", *p.Reference)
		}
		if p.Method != nil {
			description += fmt.Sprintf(" (%s)", *p.Method)
		}
		events = append(events, models.StatementEvent{
			Date:        p.Date,
			Kind:        models.StatementKindPayment,
			Description: description,
			Debit:       decimal.Zero,
			Credit:      p.Amount,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	statement := &models.AccountStatement{
		ClientID:    client.ID,
		ClientName:  client.Name,
		Events:      events,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	balance := decimal.Zero
	for i := range events {
		balance = balance.Add(events[i].Debit).Sub(events[i].Credit)
		events[i].Balance = balance
		statement.TotalDebit = statement.TotalDebit.Add(events[i].Debit)
		statement.TotalCredit = statement.TotalCredit.Add(events[i].Credit)
	}
	statement.Balance = balance

	return statement, nil
}

// Delinquency lists clients holding outstanding balance on accruals at
// least minDays old. A zero minDays looks at every accrual up to today.
func (s *ReportService) Delinquency(ctx context.Context, minDays int) (*models.DelinquencyReport, error) {
	if minDays < 0 {
		return nil, fmt.Errorf("%w: la antigüedad mínima no puede ser negativa", ErrInvalidInput)
	}

	cutoff := time.Now().AddDate(0, 0, -minDays)
	accruals, err := s.repo.AccrualsOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	report := &models.DelinquencyReport{
		MinDaysOverdue: minDays,
		TotalDebt:      decimal.Zero,
	}

	// Accruals arrive grouped by client
	debts := make(map[uint]*models.DelinquentClient)
	var order []uint
	for i := range accruals {
		a := &accruals[i]
		balance, err := s.accrualSvc.Balance(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if effectivelyZero(balance) {
			continue
		}

		row, ok := debts[a.ClientID]
		if !ok {
			row = &models.DelinquentClient{
				ClientID: a.ClientID,
				Name:     a.Client.Name,
				Debt:     decimal.Zero,
			}
			if a.Client.Contact != nil {
				row.Contact = *a.Client.Contact
			}
			debts[a.ClientID] = row
			order = append(order, a.ClientID)
		}
		row.Debt = row.Debt.Add(balance)
		report.TotalDebt = report.TotalDebt.Add(balance)
	}

	for _, clientID := range order {
		report.Clients = append(report.Clients, *debts[clientID])
	}

	sort.SliceStable(report.Clients, func(i, j int) bool {
		return report.Clients[i].Debt.GreaterThan(report.Clients[j].Debt)
	})

	return report, nil
}

// Collections summarizes payments received in one month, with a
// per-method breakdown
func (s *ReportService) Collections(ctx context.Context, period models.Period) (*models.CollectionsReport, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
	}

	payments, err := s.repo.PaymentsBetween(ctx, period.Start(), period.End())
	if err != nil {
		return nil, err
	}

	report := &models.CollectionsReport{
		Period:   period,
		Total:    decimal.Zero,
		ByMethod: make(map[string]decimal.Decimal),
	}

	for i := range payments {
		p := &payments[i]
		method := models.PaymentMethodOther
		if p.Method != nil {
			method = *p.Method
		}

		report.Rows = append(report.Rows, models.CollectionsRow{
			Date:       p.Date,
			ClientName: p.Client.Name,
			Amount:     p.Amount,
			Method:     method,
		})
		report.Total = report.Total.Add(p.Amount)
		report.ByMethod[method] = report.ByMethod[method].Add(p.Amount)
	}

	return report, nil
}
