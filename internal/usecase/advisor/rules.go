package advisor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/usecase/aggregate"
)

// Priority classifies how urgent an alert is and drives the health score
// deduction.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Instrument is a concrete product suggested as a remedy.
type Instrument struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Rule is one independent threshold check over the portfolio aggregate.
// Rules are not mutually exclusive; any subset can fire on the same
// aggregate. Each rule is testable in isolation by constructing an
// aggregate that crosses exactly its threshold.
type Rule struct {
	Code        string
	Category    string
	Priority    Priority
	Title       string
	Action      string
	Suggestions []Instrument

	// Predicate reports whether the rule fires and returns the
	// human-readable diagnosis. Degenerate aggregates (zero totals) must
	// evaluate to not-triggered.
	Predicate func(p aggregate.Portfolio) (bool, string)
}

// Alert thresholds.
var (
	countryConcentrationPct = decimal.NewFromInt(50)
	sectorConcentrationPct  = decimal.NewFromInt(40)
	cryptoSharePct          = decimal.NewFromInt(30)
)

// defensiveSector is the diversifier whose absence triggers an alert.
const defensiveSector = "Healthcare"

var hundred = decimal.NewFromInt(100)

// Rules is the fixed advisory rule table, evaluated uniformly by Evaluate.
var Rules = []Rule{
	{
		Code:     "geo-concentration",
		Category: "Geography",
		Priority: PriorityMedium,
		Title:    "Geographic concentration",
		Action:   "Diversify toward Europe and emerging markets",
		Suggestions: []Instrument{
			{Name: "iShares MSCI Europe", Ticker: "IMEU.AS"},
			{Name: "Amundi MSCI EM", Ticker: "AEEM.PA"},
		},
		Predicate: func(p aggregate.Portfolio) (bool, string) {
			country, share := dominant(p.GeoPct)
			if share.GreaterThan(countryConcentrationPct) {
				return true, fmt.Sprintf("%s holds %s%% of the equity portfolio, above the %s%% concentration threshold.",
					country, share.StringFixed(1), countryConcentrationPct)
			}
			return false, ""
		},
	},
	{
		Code:     "sector-concentration",
		Category: "Sector",
		Priority: PriorityHigh,
		Title:    "Sector concentration",
		Action:   "Diversify toward healthcare, finance and consumer staples",
		Suggestions: []Instrument{
			{Name: "iShares Global Healthcare", Ticker: "IXJ"},
			{Name: "Sanofi", Ticker: "SAN.PA"},
		},
		Predicate: func(p aggregate.Portfolio) (bool, string) {
			sector, share := dominant(p.SectorPct)
			if share.GreaterThan(sectorConcentrationPct) {
				return true, fmt.Sprintf("%s holds %s%% of the equity portfolio, above the %s%% concentration threshold.",
					sector, share.StringFixed(1), sectorConcentrationPct)
			}
			return false, ""
		},
	},
	{
		Code:     "missing-diversifier",
		Category: "Sector",
		Priority: PriorityMedium,
		Title:    "Defensive sector absent",
		Action:   "Allocate 8-12% to the healthcare sector",
		Suggestions: []Instrument{
			{Name: "Johnson & Johnson", Ticker: "JNJ"},
			{Name: "Novo Nordisk", Ticker: "NOVO-B.CO"},
		},
		Predicate: func(p aggregate.Portfolio) (bool, string) {
			// Only meaningful when there are equities at all
			if len(p.SectorPct) == 0 {
				return false, ""
			}
			if _, ok := p.SectorPct[defensiveSector]; !ok {
				return true, "No exposure to the defensive healthcare sector, which carries structural growth."
			}
			return false, ""
		},
	},
	{
		Code:     "crypto-overexposure",
		Category: "Allocation",
		Priority: PriorityHigh,
		Title:    "Crypto overexposure",
		Action:   "Reduce crypto to around 20% and reallocate toward broad ETFs",
		Suggestions: []Instrument{
			{Name: "Amundi MSCI World", Ticker: "CW8.PA"},
		},
		Predicate: func(p aggregate.Portfolio) (bool, string) {
			if p.Patrimony.IsZero() {
				return false, ""
			}
			share := p.Crypto.CurrentValue.Div(p.Patrimony).Mul(hundred)
			if share.GreaterThan(cryptoSharePct) {
				return true, fmt.Sprintf("Crypto represents %s%% of total patrimony, above the %s%% threshold.",
					share.StringFixed(1), cryptoSharePct)
			}
			return false, ""
		},
	},
}

// dominant returns the largest entry of a percentage breakdown.
func dominant(pct map[string]decimal.Decimal) (string, decimal.Decimal) {
	var name string
	share := decimal.Zero
	for key, value := range pct {
		if value.GreaterThan(share) {
			name, share = key, value
		}
	}
	return name, share
}
