// Package projection simulates the growth of invested capital under
// compounding returns and recurring monthly contributions.
package projection

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultTargetEUR is the patrimony milestone reported by the simulation.
var DefaultTargetEUR = decimal.NewFromInt(100000)

// Input parameterizes a growth simulation.
type Input struct {
	Capital         decimal.Decimal // starting capital in EUR
	MonthlyPayment  decimal.Decimal // contribution added at the end of each month
	AnnualReturnPct decimal.Decimal // expected annual return, in percent
	Months          int             // horizon length
	TargetEUR       decimal.Decimal // milestone to detect; zero disables detection
}

// Result is the simulated trajectory and its summary figures.
type Result struct {
	Trajectory  []decimal.Decimal `json:"trajectory"` // Months+1 points, index 0 is the starting capital
	FinalValue  decimal.Decimal   `json:"final_value"`
	Contributed decimal.Decimal   `json:"contributed"` // capital plus all payments
	Gain        decimal.Decimal   `json:"gain"`
	TargetMonth int               `json:"target_month"` // first month index reaching the target, -1 if never
}

// MonthlyRate converts an annual percentage return into the equivalent
// compounded monthly rate, (1+annual)^(1/12)-1. Annual rates at or below
// -100% have no compounded equivalent and floor at a total monthly loss.
func MonthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	annual, _ := annualPct.Div(decimal.NewFromInt(100)).Float64()
	if annual <= -1 {
		return decimal.NewFromInt(-1)
	}
	monthly := math.Pow(1+annual, 1.0/12.0) - 1
	return decimal.NewFromFloat(monthly)
}

// Project runs the month-by-month simulation. Each step applies the monthly
// rate to the running value, then adds the contribution:
//
//	value[t] = value[t-1] * (1 + r) + payment
//
// Negative annual returns are accepted; at or below -100% the running value
// collapses to the contributions alone.
func Project(in Input) Result {
	rate := MonthlyRate(in.AnnualReturnPct)
	growth := decimal.NewFromInt(1).Add(rate)

	trajectory := make([]decimal.Decimal, 0, in.Months+1)
	trajectory = append(trajectory, in.Capital)

	targetMonth := -1
	if !in.TargetEUR.IsZero() && in.Capital.GreaterThanOrEqual(in.TargetEUR) {
		targetMonth = 0
	}

	value := in.Capital
	for month := 1; month <= in.Months; month++ {
		value = value.Mul(growth).Add(in.MonthlyPayment)
		trajectory = append(trajectory, value)

		if targetMonth == -1 && !in.TargetEUR.IsZero() && value.GreaterThanOrEqual(in.TargetEUR) {
			targetMonth = month
		}
	}

	contributed := in.Capital.Add(in.MonthlyPayment.Mul(decimal.NewFromInt(int64(in.Months))))

	return Result{
		Trajectory:  trajectory,
		FinalValue:  value,
		Contributed: contributed,
		Gain:        value.Sub(contributed),
		TargetMonth: targetMonth,
	}
}
