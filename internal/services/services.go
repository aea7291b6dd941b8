package services

import (
	"github.com/abonos-app/abonos-api/internal/config"
	"github.com/abonos-app/abonos-api/internal/jobs"
	"github.com/abonos-app/abonos-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	User       *UserService
	Client     *ClientService
	Plan       *PlanService
	Accrual    *AccrualService
	Payment    *PaymentService
	Adjustment *AdjustmentService
	Report     *ReportService
	Export     *ExportService
	Audit      *AuditService
	Job        *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit, worker)
	accrualSvc := NewAccrualService(repos.Accrual, repos.Plan, auditSvc)
	reportSvc := NewReportService(repos.Report, repos.Client, repos.Accrual, repos.Payment, repos.Adjustment, accrualSvc)

	return &Services{
		Auth:       NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:       NewUserService(repos.User, auditSvc),
		Client:     NewClientService(repos.Client, auditSvc),
		Plan:       NewPlanService(repos.Plan, repos.Client, auditSvc),
		Accrual:    accrualSvc,
		Payment:    NewPaymentService(repos.Payment, repos.Client, accrualSvc, auditSvc),
		Adjustment: NewAdjustmentService(repos.Adjustment, repos.Client, repos.Accrual, auditSvc),
		Report:     reportSvc,
		Export:     NewExportService(reportSvc),
		Audit:      auditSvc,
		Job:        NewJobService(worker),
	}
}
