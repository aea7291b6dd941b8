package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Client       ClientRepository
	Plan         PlanRepository
	Accrual      AccrualRepository
	Payment      PaymentRepository
	Adjustment   AdjustmentRepository
	Report       ReportRepository
	Audit        AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Client:       NewClientRepository(db),
		Plan:         NewPlanRepository(db),
		Accrual:      NewAccrualRepository(db),
		Payment:      NewPaymentRepository(db),
		Adjustment:   NewAdjustmentRepository(db),
		Report:       NewReportRepository(db),
		Audit:        NewAuditRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// paginate applies page/per-page offsets to a gorm query
func paginate(db *gorm.DB, query *ListQuery) *gorm.DB {
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}
	return db
}
