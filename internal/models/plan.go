package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan represents a recurring monthly subscription for a client
type Plan struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    uint            `gorm:"not null;index" json:"client_id"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	StartDate   time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time      `gorm:"type:date" json:"end_date"`
	Periodicity string          `gorm:"default:monthly" json:"periodicity"`
	Active      bool            `gorm:"default:true;not null;index" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Associations
	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for Plan
func (Plan) TableName() string {
	return "plans"
}

// Periodicity constants
const (
	PeriodicityMonthly = "monthly"
)

// InForce reports whether the plan covers the given billing period:
// the start date is on or before the period's last day and the end
// date, when set, is on or after the period's first day.
func (p *Plan) InForce(period Period) bool {
	if p.StartDate.After(period.End()) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(period.Start()) {
		return false
	}
	return true
}

// PlanResponse is the JSON response format for plans
type PlanResponse struct {
	ID          uint            `json:"id"`
	ClientID    uint            `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Periodicity string          `json:"periodicity"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts Plan to PlanResponse
func (p *Plan) ToResponse() PlanResponse {
	resp := PlanResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Description: p.Description,
		Amount:      p.Amount,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Periodicity: p.Periodicity,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
	if p.Client.ID != 0 {
		resp.ClientName = p.Client.Name
	}
	return resp
}
