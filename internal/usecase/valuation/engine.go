package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ValuedEquity is an equity position with its derived financial metrics.
type ValuedEquity struct {
	Position domain.EquityPosition

	CurrentPrice decimal.Decimal // last known unit price, purchase price when never quoted
	BaseCost     decimal.Decimal // quantity x purchase price, the invested amount
	CurrentValue decimal.Decimal
	Gain         decimal.Decimal
	Performance  decimal.Decimal // percent, 0 when base cost is 0
	Change24h    decimal.Decimal
}

// ValuedCrypto is a crypto position with derived metrics in USD and EUR.
// The EUR side is obtained by applying the snapshot FX rate uniformly to
// base cost, current value and gain, which keeps the identity
// base + gain == current intact after conversion.
type ValuedCrypto struct {
	Position domain.CryptoPosition

	CurrentPriceUSD decimal.Decimal
	BaseCostUSD     decimal.Decimal
	CurrentValueUSD decimal.Decimal
	GainUSD         decimal.Decimal

	BaseCostEUR     decimal.Decimal
	CurrentValueEUR decimal.Decimal
	GainEUR         decimal.Decimal

	Performance decimal.Decimal // percent, computed on the USD side
	Change24h   decimal.Decimal
}

// ValuedRealEstate is the real-estate holding with pro-rata accrued interest.
type ValuedRealEstate struct {
	Holding domain.RealEstateHolding

	LockedAccrued decimal.Decimal
	LiquidAccrued decimal.Decimal
	CurrentValue  decimal.Decimal
	Invested      decimal.Decimal
	Gain          decimal.Decimal // accrued interest, always >= 0
}

// performance returns gain / base * 100, defined as 0 when base is 0.
// A zero base cost means "nothing invested", so performance degrades to
// flat rather than an error or division by zero.
func performance(gain, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return gain.Div(base).Mul(hundred)
}

// ValueEquity derives the financial metrics of one equity position.
// Logic:
//   - BaseCost = quantity x purchase price
//   - CurrentValue = quantity x current price; a missing quote falls back to
//     the purchase price, so an unknown price degrades to flat (0 gain),
//     never to an error visible downstream
//   - Gain = CurrentValue - BaseCost
//   - Performance = Gain / BaseCost x 100 (0 when BaseCost is 0)
func ValueEquity(p domain.EquityPosition, quote *domain.EquityQuote) ValuedEquity {
	currentPrice := p.PurchasePrice
	change := decimal.Zero
	if quote != nil && !quote.Price.IsZero() {
		currentPrice = quote.Price
		change = quote.Change24h
	}

	baseCost := p.Quantity.Mul(p.PurchasePrice)
	currentValue := p.Quantity.Mul(currentPrice)
	gain := currentValue.Sub(baseCost)

	return ValuedEquity{
		Position:     p,
		CurrentPrice: currentPrice,
		BaseCost:     baseCost,
		CurrentValue: currentValue,
		Gain:         gain,
		Performance:  performance(gain, baseCost),
		Change24h:    change,
	}
}

// ValueCrypto derives the financial metrics of one crypto position.
// Logic:
//   - BaseCostUSD = quantity x purchase price
//   - CurrentValueUSD: a staked position with a positive platform-reported
//     staking value is valued at that balance, overriding spot price;
//     otherwise quantity x current price (purchase price fallback)
//   - GainUSD = CurrentValueUSD - BaseCostUSD + staking gains; staking
//     rewards stay an additive term so price appreciation and staking
//     income remain separately auditable
//   - EUR fields = USD fields x fxRate, the same rate for all three
func ValueCrypto(c domain.CryptoPosition, quote *domain.CryptoQuote, fxRate decimal.Decimal) ValuedCrypto {
	currentPrice := c.PurchasePriceUSD
	change := decimal.Zero
	if quote != nil && !quote.PriceUSD.IsZero() {
		currentPrice = quote.PriceUSD
		change = quote.Change24h
	}

	baseCost := c.Quantity.Mul(c.PurchasePriceUSD)

	var currentValue decimal.Decimal
	if c.Staking.IsStaked && c.Staking.ValueUSD.IsPositive() {
		currentValue = c.Staking.ValueUSD
	} else {
		currentValue = c.Quantity.Mul(currentPrice)
	}

	gain := currentValue.Sub(baseCost).Add(c.Staking.GainsUSD)

	return ValuedCrypto{
		Position:        c,
		CurrentPriceUSD: currentPrice,
		BaseCostUSD:     baseCost,
		CurrentValueUSD: currentValue,
		GainUSD:         gain,
		BaseCostEUR:     baseCost.Mul(fxRate),
		CurrentValueEUR: currentValue.Mul(fxRate),
		GainEUR:         gain.Mul(fxRate),
		Performance:     performance(gain, baseCost),
		Change24h:       change,
	}
}

// ValueRealEstate derives the value of the real-estate holding with interest
// accrued pro-rata over elapsedMonths.
// Logic:
//   - accrued per tier = principal x annual rate x elapsedMonths / 12
//   - CurrentValue = principals + accruals + royalties
//   - Gain = total accrued interest, never negative (this asset class is
//     principal + accrual, never marked down)
func ValueRealEstate(h domain.RealEstateHolding, elapsedMonths int) ValuedRealEstate {
	if elapsedMonths < 0 {
		elapsedMonths = 0
	}
	months := decimal.NewFromInt(int64(elapsedMonths))
	twelve := decimal.NewFromInt(12)

	lockedAccrued := h.LockedPrincipal.Mul(h.LockedRate).Mul(months).Div(twelve)
	liquidAccrued := h.LiquidPrincipal.Mul(h.LiquidRate).Mul(months).Div(twelve)

	invested := h.Invested()
	gain := lockedAccrued.Add(liquidAccrued)

	return ValuedRealEstate{
		Holding:       h,
		LockedAccrued: lockedAccrued,
		LiquidAccrued: liquidAccrued,
		CurrentValue:  invested.Add(gain),
		Invested:      invested,
		Gain:          gain,
	}
}

// ValueEquities values every equity position against the given quote map.
// Tickers absent from the map fall back to their purchase price.
func ValueEquities(positions []domain.EquityPosition, quotes map[string]domain.EquityQuote) []ValuedEquity {
	valued := make([]ValuedEquity, 0, len(positions))
	for _, p := range positions {
		var quote *domain.EquityQuote
		if q, ok := quotes[p.Ticker]; ok {
			quote = &q
		}
		valued = append(valued, ValueEquity(p, quote))
	}
	return valued
}

// ValueCryptos values every crypto position against the given quote map,
// converting to EUR at the single shared FX rate.
func ValueCryptos(positions []domain.CryptoPosition, quotes map[string]domain.CryptoQuote, fxRate decimal.Decimal) []ValuedCrypto {
	valued := make([]ValuedCrypto, 0, len(positions))
	for _, c := range positions {
		var quote *domain.CryptoQuote
		if q, ok := quotes[c.Ticker]; ok {
			quote = &q
		}
		valued = append(valued, ValueCrypto(c, quote, fxRate))
	}
	return valued
}
