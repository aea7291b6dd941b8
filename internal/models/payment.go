package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents money received from a client, not necessarily
// linked to any specific accrual until allocated.
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ClientID  uint            `gorm:"not null;index" json:"client_id"`
	Date      time.Time       `gorm:"type:date;not null;index" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method    *string         `json:"method"`
	Reference *string         `json:"reference"`
	Note      *string         `json:"note"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Client      Client              `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment method constants
const (
	PaymentMethodCash     = "efectivo"
	PaymentMethodTransfer = "transferencia"
	PaymentMethodDebit    = "debito"
	PaymentMethodCheck    = "cheque"
	PaymentMethodOther    = "otro"
)

// PaymentAllocation links a portion of a payment to one accrual,
// reducing that accrual's outstanding balance.
type PaymentAllocation struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AccrualID uint            `gorm:"not null;index" json:"accrual_id"`
	PaymentID uint            `gorm:"not null;index" json:"payment_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// Associations
	Accrual Accrual `gorm:"foreignKey:AccrualID" json:"accrual,omitempty"`
	Payment Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// TableName specifies the table name for PaymentAllocation
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID         uint            `json:"id"`
	ClientID   uint            `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Method     *string         `json:"method"`
	Reference  *string         `json:"reference"`
	Note       *string         `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Date:      p.Date,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
	if p.Client.ID != 0 {
		resp.ClientName = p.Client.Name
	}
	return resp
}

// AllocationResponse is the JSON response format for payment allocations
type AllocationResponse struct {
	ID        uint            `json:"id"`
	AccrualID uint            `json:"accrual_id"`
	PaymentID uint            `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToResponse converts PaymentAllocation to AllocationResponse
func (a *PaymentAllocation) ToResponse() AllocationResponse {
	resp := AllocationResponse{
		ID:        a.ID,
		AccrualID: a.AccrualID,
		PaymentID: a.PaymentID,
		Amount:    a.Amount,
		CreatedAt: a.CreatedAt,
	}
	if a.Accrual.ID != 0 {
		resp.Period = a.Accrual.Period().String()
	}
	return resp
}
