package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringOrder represents a scheduled fixed-amount periodic investment
// (dollar-cost averaging). It is schedule metadata only; no execution engine
// exists, the dates are tracked for display.
type RecurringOrder struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	AmountEUR     decimal.Decimal `json:"amount_eur"`
	FrequencyDays int             `json:"frequency_days"`
	NextExecution time.Time       `json:"next_execution"`
}

// Validate ensures the order adheres to domain rules.
func (o *RecurringOrder) Validate() error {
	if o.Ticker == "" {
		return errors.New("recurring order ticker cannot be empty")
	}
	if o.AmountEUR.IsNegative() {
		return errors.New("recurring order amount cannot be negative")
	}
	if o.FrequencyDays <= 0 {
		return errors.New("recurring order frequency must be positive")
	}
	return nil
}

// DaysUntilNext returns the number of whole days from now until the next
// scheduled execution. Negative when the date is in the past.
func (o *RecurringOrder) DaysUntilNext(now time.Time) int {
	return int(o.NextExecution.Sub(now).Hours() / 24)
}

// MonthlyAmount returns the contribution normalized to a 30-day month.
func (o *RecurringOrder) MonthlyAmount() decimal.Decimal {
	if o.FrequencyDays <= 0 {
		return decimal.Zero
	}
	return o.AmountEUR.Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(int64(o.FrequencyDays)))
}
