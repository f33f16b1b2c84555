// Package period models the (year, month) billing period every derived
// billing value is keyed by.
package period

import (
	"errors"
	"fmt"
	"time"
)

type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

var ErrInvalidPeriod = errors.New("invalid_period")

// New validates and builds a period.
func New(year int, month int) (Period, error) {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Current returns the period containing t.
func Current(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}
