package advisor

import (
	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/usecase/valuation"
)

// DefaultIncomeTargetEUR is the monthly passive-income goal tracked by the
// gap analysis.
var DefaultIncomeTargetEUR = decimal.NewFromInt(500)

// accrualWindowMonths is the window over which reported staking gains and
// real-estate interest are averaged into a monthly figure.
const accrualWindowMonths = 6

// IncomeReport is the passive-income gap analysis: estimated monthly income
// per source and the progress toward the target.
type IncomeReport struct {
	DividendsEUR  decimal.Decimal `json:"dividends_eur"`
	StakingEUR    decimal.Decimal `json:"staking_eur"`
	RealEstateEUR decimal.Decimal `json:"real_estate_eur"`
	TotalEUR      decimal.Decimal `json:"total_eur"`
	TargetEUR     decimal.Decimal `json:"target_eur"`
	ProgressPct   decimal.Decimal `json:"progress_pct"` // capped at 100
	RemainingEUR  decimal.Decimal `json:"remaining_eur"`
	TargetReached bool            `json:"target_reached"`
}

// PassiveIncome estimates monthly passive income from current holdings.
// Logic:
//   - dividends: current equity value x annual yield / 100 / 12 per position
//   - staking: reported staking gains converted at the snapshot FX rate,
//     averaged over the accrual window
//   - real estate: accrued interest averaged over the same window
//   - progress = total / target x 100, capped at 100
func PassiveIncome(
	equities []valuation.ValuedEquity,
	cryptos []valuation.ValuedCrypto,
	realEstate valuation.ValuedRealEstate,
	fxRate decimal.Decimal,
	target decimal.Decimal,
) IncomeReport {
	twelve := decimal.NewFromInt(12)
	window := decimal.NewFromInt(accrualWindowMonths)

	dividends := decimal.Zero
	for _, e := range equities {
		dividends = dividends.Add(e.CurrentValue.Mul(e.Position.DividendYield).Div(hundred).Div(twelve))
	}

	stakingGainsUSD := decimal.Zero
	for _, c := range cryptos {
		stakingGainsUSD = stakingGainsUSD.Add(c.Position.Staking.GainsUSD)
	}
	staking := stakingGainsUSD.Mul(fxRate).Div(window)

	realEstateMonthly := realEstate.Gain.Div(window)

	total := dividends.Add(staking).Add(realEstateMonthly)

	progress := decimal.Zero
	remaining := target
	if target.IsPositive() {
		progress = total.Div(target).Mul(hundred)
		if progress.GreaterThan(hundred) {
			progress = hundred
		}
		remaining = target.Sub(total)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
	}

	return IncomeReport{
		DividendsEUR:  dividends,
		StakingEUR:    staking,
		RealEstateEUR: realEstateMonthly,
		TotalEUR:      total,
		TargetEUR:     target,
		ProgressPct:   progress,
		RemainingEUR:  remaining,
		TargetReached: total.GreaterThanOrEqual(target),
	}
}
