package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment represents a signed manual correction to a client's
// balance outside the normal accrual/payment flow. A positive amount
// increases debt, a negative amount decreases it.
type Adjustment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    uint            `gorm:"not null;index" json:"client_id"`
	AccrualID   *uint           `gorm:"index" json:"accrual_id"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category    string          `gorm:"not null;index" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`

	// Associations
	Client  Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Accrual *Accrual `gorm:"foreignKey:AccrualID" json:"accrual,omitempty"`
}

// TableName specifies the table name for Adjustment
func (Adjustment) TableName() string {
	return "adjustments"
}

// Adjustment category constants
const (
	AdjustmentBonus      = "bonificacion" // discount, negative
	AdjustmentSurcharge  = "recargo"      // increment, positive
	AdjustmentExtra      = "adicional"    // extra service, positive
	AdjustmentCreditNote = "nota_credito" // negative
	AdjustmentDebitNote  = "nota_debito"  // positive
	AdjustmentOther      = "otro"         // sign as given
)

// AdjustmentCategories lists the accepted category values
var AdjustmentCategories = []string{
	AdjustmentBonus,
	AdjustmentSurcharge,
	AdjustmentExtra,
	AdjustmentCreditNote,
	AdjustmentDebitNote,
	AdjustmentOther,
}

// ValidAdjustmentCategory reports whether category is one of the accepted values
func ValidAdjustmentCategory(category string) bool {
	for _, c := range AdjustmentCategories {
		if c == category {
			return true
		}
	}
	return false
}

// AdjustmentResponse is the JSON response format for adjustments
type AdjustmentResponse struct {
	ID               uint            `json:"id"`
	ClientID         uint            `json:"client_id"`
	AccrualID        *uint           `json:"accrual_id"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	ReferenceCleared bool            `json:"reference_cleared,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToResponse converts Adjustment to AdjustmentResponse. referenceCleared
// marks the warning outcome where the requested accrual reference did
// not exist and was dropped.
func (a *Adjustment) ToResponse(referenceCleared bool) AdjustmentResponse {
	return AdjustmentResponse{
		ID:               a.ID,
		ClientID:         a.ClientID,
		AccrualID:        a.AccrualID,
		Date:             a.Date,
		Description:      a.Description,
		Amount:           a.Amount,
		Category:         a.Category,
		ReferenceCleared: referenceCleared,
		CreatedAt:        a.CreatedAt,
	}
}
