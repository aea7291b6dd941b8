package services

import "github.com/shopspring/decimal"

// epsilon is the smallest unit the system displays; amounts at or below
// it are treated as zero by the allocation loops and balance checks.
var epsilon = decimal.New(1, -2) // 0.01

// effectivelyZero reports whether an amount is at or below epsilon
func effectivelyZero(amount decimal.Decimal) bool {
	return amount.Cmp(epsilon) <= 0
}

// optional converts an empty string to a nil pointer
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
