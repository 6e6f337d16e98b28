package projection

import (
	"github.com/shopspring/decimal"
)

// Fee-drag comparison horizon.
const feeDragYears = 30

// FeeDragInput describes the two products being compared. Rates are net
// annual returns in percent, after fees.
type FeeDragInput struct {
	Capital        decimal.Decimal
	MonthlyPayment decimal.Decimal
	CurrentNetPct  decimal.Decimal // net return of the current, high-fee product
	LowFeeNetPct   decimal.Decimal // net return of the low-fee alternative
}

// FeeDragResult contrasts the long-run trajectory of the current product
// against the low-fee alternative under identical contributions.
type FeeDragResult struct {
	Years             int               `json:"years"`
	CurrentTrajectory []decimal.Decimal `json:"current_trajectory"`
	LowFeeTrajectory  []decimal.Decimal `json:"low_fee_trajectory"`
	CurrentFinal      decimal.Decimal   `json:"current_final"`
	LowFeeFinal       decimal.Decimal   `json:"low_fee_final"`
	SavingsEUR        decimal.Decimal   `json:"savings_eur"` // low-fee final minus current final
}

// FeeDrag simulates the same capital and contribution stream under both net
// rates and reports the terminal difference. Both runs share Project, so the
// only divergence between the trajectories is the rate.
func FeeDrag(in FeeDragInput) FeeDragResult {
	months := feeDragYears * 12

	current := Project(Input{
		Capital:         in.Capital,
		MonthlyPayment:  in.MonthlyPayment,
		AnnualReturnPct: in.CurrentNetPct,
		Months:          months,
	})
	lowFee := Project(Input{
		Capital:         in.Capital,
		MonthlyPayment:  in.MonthlyPayment,
		AnnualReturnPct: in.LowFeeNetPct,
		Months:          months,
	})

	return FeeDragResult{
		Years:             feeDragYears,
		CurrentTrajectory: current.Trajectory,
		LowFeeTrajectory:  lowFee.Trajectory,
		CurrentFinal:      current.FinalValue,
		LowFeeFinal:       lowFee.FinalValue,
		SavingsEUR:        lowFee.FinalValue.Sub(current.FinalValue),
	}
}
