package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
	"github.com/mlaurent/horizon-backend/internal/usecase/valuation"
)

var hundred = decimal.NewFromInt(100)

// ClassTotal holds the reduced metrics of one asset class.
type ClassTotal struct {
	CurrentValue decimal.Decimal `json:"current_value"`
	Invested     decimal.Decimal `json:"invested"`
	Gain         decimal.Decimal `json:"gain"`
}

// EquityRank is one entry of the top/flop performer lists.
type EquityRank struct {
	Name        string          `json:"name"`
	Ticker      string          `json:"ticker"`
	Performance decimal.Decimal `json:"performance"`
}

// Portfolio is the aggregate read model of one valued snapshot: class
// totals, cross-cutting breakdowns and grand totals. It is a pure reduction
// of its inputs; the same snapshot always produces the same aggregate.
type Portfolio struct {
	Equities   ClassTotal
	Crypto     ClassTotal // includes the un-invested cash balance at the shared FX rate
	RealEstate ClassTotal

	// Total patrimony, total invested and total gain across all classes.
	Patrimony   decimal.Decimal
	Invested    decimal.Decimal
	Gain        decimal.Decimal
	Performance decimal.Decimal // percent, 0 when nothing is invested

	// Percentage of the equities-only subtotal per country and per sector.
	// Crypto and real estate carry no geo/sector tags, so scoping these to
	// equities is the only reading under which the percentages mean anything.
	GeoPct    map[string]decimal.Decimal
	SectorPct map[string]decimal.Decimal

	TopPerformers  []EquityRank
	FlopPerformers []EquityRank

	MonthlyDCA decimal.Decimal // total recurring contribution per 30-day month
}

// Input carries the valued positions to reduce.
type Input struct {
	Equities   []valuation.ValuedEquity
	Cryptos    []valuation.ValuedCrypto
	RealEstate valuation.ValuedRealEstate
	CashUSD    decimal.Decimal
	FXRate     decimal.Decimal
	Orders     []domain.RecurringOrder
}

// rankedCount bounds the top/flop performer lists.
const rankedCount = 5

// Reduce collapses valued positions into the portfolio aggregate.
// Sums are plain additions, so the result is independent of position order.
func Reduce(in Input) Portfolio {
	var equities ClassTotal
	for _, e := range in.Equities {
		equities.CurrentValue = equities.CurrentValue.Add(e.CurrentValue)
		equities.Invested = equities.Invested.Add(e.BaseCost)
		equities.Gain = equities.Gain.Add(e.Gain)
	}

	var crypto ClassTotal
	for _, c := range in.Cryptos {
		crypto.CurrentValue = crypto.CurrentValue.Add(c.CurrentValueEUR)
		crypto.Invested = crypto.Invested.Add(c.BaseCostEUR)
		crypto.Gain = crypto.Gain.Add(c.GainEUR)
	}
	// Cash sitting on the platform counts toward the class value but is not
	// an invested amount.
	crypto.CurrentValue = crypto.CurrentValue.Add(in.CashUSD.Mul(in.FXRate))

	realEstate := ClassTotal{
		CurrentValue: in.RealEstate.CurrentValue,
		Invested:     in.RealEstate.Invested,
		Gain:         in.RealEstate.Gain,
	}

	patrimony := equities.CurrentValue.Add(crypto.CurrentValue).Add(realEstate.CurrentValue)
	invested := equities.Invested.Add(crypto.Invested).Add(realEstate.Invested)
	gain := equities.Gain.Add(crypto.Gain).Add(realEstate.Gain)

	performance := decimal.Zero
	if !invested.IsZero() {
		performance = gain.Div(invested).Mul(hundred)
	}

	return Portfolio{
		Equities:       equities,
		Crypto:         crypto,
		RealEstate:     realEstate,
		Patrimony:      patrimony,
		Invested:       invested,
		Gain:           gain,
		Performance:    performance,
		GeoPct:         breakdown(in.Equities, equities.CurrentValue, func(e valuation.ValuedEquity) string { return e.Position.Country }),
		SectorPct:      breakdown(in.Equities, equities.CurrentValue, func(e valuation.ValuedEquity) string { return e.Position.Sector }),
		TopPerformers:  rank(in.Equities, true),
		FlopPerformers: rank(in.Equities, false),
		MonthlyDCA:     monthlyDCA(in.Orders),
	}
}

// breakdown groups equity value by a tag and expresses each group as a
// percentage of the equities subtotal. An empty map is returned when the
// subtotal is zero: 0/0 is read as "no exposure", never as 100% or an error.
func breakdown(equities []valuation.ValuedEquity, subtotal decimal.Decimal, tag func(valuation.ValuedEquity) string) map[string]decimal.Decimal {
	pct := map[string]decimal.Decimal{}
	if subtotal.IsZero() {
		return pct
	}

	grouped := map[string]decimal.Decimal{}
	for _, e := range equities {
		grouped[tag(e)] = grouped[tag(e)].Add(e.CurrentValue)
	}
	for key, value := range grouped {
		pct[key] = value.Div(subtotal).Mul(hundred)
	}
	return pct
}

// rank returns the best (or worst) equity performers by performance percent.
func rank(equities []valuation.ValuedEquity, best bool) []EquityRank {
	ranked := make([]EquityRank, 0, len(equities))
	for _, e := range equities {
		ranked = append(ranked, EquityRank{
			Name:        e.Position.Name,
			Ticker:      e.Position.Ticker,
			Performance: e.Performance,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if best {
			return ranked[i].Performance.GreaterThan(ranked[j].Performance)
		}
		return ranked[i].Performance.LessThan(ranked[j].Performance)
	})
	if len(ranked) > rankedCount {
		ranked = ranked[:rankedCount]
	}
	return ranked
}

// monthlyDCA sums the recurring orders normalized to a 30-day month.
func monthlyDCA(orders []domain.RecurringOrder) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.MonthlyAmount())
	}
	return total
}
