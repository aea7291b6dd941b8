package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetrics holds the headline numbers shown on the dashboard
type DashboardMetrics struct {
	ActiveClients      int64           `json:"active_clients"`
	ActivePlans        int64           `json:"active_plans"`
	AccruedThisMonth   decimal.Decimal `json:"accrued_this_month"`
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	ClientsWithBalance int64           `json:"clients_with_balance"`
}

// StatementEvent is one debit/credit movement on a client's account statement
type StatementEvent struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"` // accrual, adjustment, payment
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Statement event kinds
const (
	StatementKindAccrual    = "accrual"
	StatementKindAdjustment = "adjustment"
	StatementKindPayment    = "payment"
)

// AccountStatement is a client's chronological movement list with totals
type AccountStatement struct {
	ClientID    uint             `json:"client_id"`
	ClientName  string           `json:"client_name"`
	Events      []StatementEvent `json:"events"`
	TotalDebit  decimal.Decimal  `json:"total_debit"`
	TotalCredit decimal.Decimal  `json:"total_credit"`
	Balance     decimal.Decimal  `json:"balance"`
}

// DelinquentClient is one row of the delinquency report
type DelinquentClient struct {
	ClientID uint            `json:"client_id"`
	Name     string          `json:"name"`
	Contact  string          `json:"contact"`
	Debt     decimal.Decimal `json:"debt"`
}

// DelinquencyReport lists clients with outstanding balance on accruals
// older than the cutoff
type DelinquencyReport struct {
	MinDaysOverdue int                `json:"min_days_overdue"`
	Clients        []DelinquentClient `json:"clients"`
	TotalDebt      decimal.Decimal    `json:"total_debt"`
}

// CollectionsRow is one payment row of the monthly collections report
type CollectionsRow struct {
	Date       time.Time       `json:"date"`
	ClientName string          `json:"client_name"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
}

// CollectionsReport summarizes payments received in one month
type CollectionsReport struct {
	Period   Period                     `json:"period"`
	Rows     []CollectionsRow           `json:"rows"`
	Total    decimal.Decimal            `json:"total"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
}
