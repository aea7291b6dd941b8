package handlers

import (
	"github.com/abonos-app/abonos-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	User       *UserHandler
	Client     *ClientHandler
	Plan       *PlanHandler
	Accrual    *AccrualHandler
	Payment    *PaymentHandler
	Adjustment *AdjustmentHandler
	Report     *ReportHandler
	Audit      *AuditHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Auth:       NewAuthHandler(svcs.Auth),
		User:       NewUserHandler(svcs.User),
		Client:     NewClientHandler(svcs.Client),
		Plan:       NewPlanHandler(svcs.Plan),
		Accrual:    NewAccrualHandler(svcs.Accrual, svcs.Audit),
		Payment:    NewPaymentHandler(svcs.Payment, svcs.Audit),
		Adjustment: NewAdjustmentHandler(svcs.Adjustment),
		Report:     NewReportHandler(svcs.Report, svcs.Export),
		Audit:      NewAuditHandler(svcs.Audit),
		Job:        NewJobHandler(svcs.Job),
	}
}
