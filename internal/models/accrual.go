package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accrual represents a billing charge recognized for a client for one
// plan and calendar period, independent of whether it has been paid.
// At most one accrual exists per (client, plan, year, month).
type Accrual struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    uint            `gorm:"not null;index;uniqueIndex:idx_accruals_period,priority:1" json:"client_id"`
	PlanID      *uint           `gorm:"index;uniqueIndex:idx_accruals_period,priority:2" json:"plan_id"`
	PeriodYear  int             `gorm:"not null;index:idx_accruals_ym;uniqueIndex:idx_accruals_period,priority:3" json:"period_year"`
	PeriodMonth int             `gorm:"not null;index:idx_accruals_ym;uniqueIndex:idx_accruals_period,priority:4" json:"period_month"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	AccruedAt   time.Time       `gorm:"type:date;not null" json:"accrued_at"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`

	// Associations
	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Plan   *Plan  `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

// TableName specifies the table name for Accrual
func (Accrual) TableName() string {
	return "accruals"
}

// Period returns the billing period the accrual belongs to
func (a *Accrual) Period() Period {
	return Period{Year: a.PeriodYear, Month: a.PeriodMonth}
}

// AccrualResponse is the JSON response format for accruals
type AccrualResponse struct {
	ID          uint            `json:"id"`
	ClientID    uint            `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	PlanID      *uint           `json:"plan_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Period      string          `json:"period"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	AccruedAt   time.Time       `json:"accrued_at"`
	Notes       *string         `json:"notes"`
}

// ToResponse converts Accrual to AccrualResponse with its computed balance
func (a *Accrual) ToResponse(balance decimal.Decimal) AccrualResponse {
	resp := AccrualResponse{
		ID:          a.ID,
		ClientID:    a.ClientID,
		PlanID:      a.PlanID,
		PeriodYear:  a.PeriodYear,
		PeriodMonth: a.PeriodMonth,
		Period:      a.Period().String(),
		Amount:      a.Amount,
		Balance:     balance,
		AccruedAt:   a.AccruedAt,
		Notes:       a.Notes,
	}
	if a.Client.ID != 0 {
		resp.ClientName = a.Client.Name
	}
	return resp
}
