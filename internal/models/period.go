package models

import (
	"fmt"
	"time"
)

// Period identifies a calendar billing month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Valid returns true if the month is in 1..12
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year > 0
}

// Start returns the first day of the period
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last calendar day of the period
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Before reports whether p is an earlier period than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// String formats the period as YYYY/MM
func (p Period) String() string {
	return fmt.Sprintf("%d/%02d", p.Year, p.Month)
}

// CurrentPeriod returns the period for today's date
func CurrentPeriod() Period {
	now := time.Now()
	return Period{Year: now.Year(), Month: int(now.Month())}
}
