package jsonfile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

// DefaultSnapshot returns the seeded portfolio used when no data file exists
// yet. Quantities and purchase prices reflect the owner's actual holdings at
// seed time; prices are filled in by the first refresh.
func DefaultSnapshot() *domain.Snapshot {
	s := &domain.Snapshot{
		Equities: []domain.EquityPosition{
			equity("Streamwide", "ALSTW.PA", "8.652555", "34.69", "Tech", "France", "0"),
			equity("Chevron", "CVX", "3.415936", "145.85", "Energy", "USA", "3.8"),
			equity("Alphabet (A)", "GOOGL", "1.590988", "157.77", "Tech", "USA", "0.5"),
			equity("Nvidia", "NVDA", "2.120073", "130.22", "Tech", "USA", "0.03"),
			equity("Total Energie", "TTE.PA", "5.136355", "54.32", "Energy", "France", "5.2"),
			equity("Apple", "AAPL", "1.173637", "200.25", "Tech", "USA", "0.5"),
			equity("Riot Platforms", "RIOT", "19.745854", "12.12", "Crypto Mining", "USA", "0"),
			equity("Physical Silver", "PHAG.L", "3.587989", "41.55", "Metals", "UK", "0"),
			equity("Microsoft", "MSFT", "0.265737", "417.79", "Tech", "USA", "0.8"),
			equity("Prosus", "PRX.AS", "2", "57.92", "Tech", "Netherlands", "0"),
			equity("Air Liquide", "AI.PA", "0.62586", "160.00", "Industrials", "France", "1.9"),
			equity("FTSE EUR", "VEUR.AS", "1.288122", "52.77", "ETF Europe", "Europe", "2.8"),
			equity("EURO STOXX 50", "MSE.PA", "2.542464", "18.50", "ETF Europe", "Europe", "3.1"),
			equity("Xiaomi", "1810.HK", "9.424083", "4.77", "Tech", "China", "0"),
			equity("MSCI CHINA", "CN1.PA", "5.536076", "5.42", "ETF Emerging", "China", "2.2"),
		},
		Cryptos: []domain.CryptoPosition{
			crypto("Ethereum", "ETH", "0.21283369", "2876.50", true, "656.01", "1.86", "23.38"),
			crypto("Solana", "SOL", "2.23274878", "129.53", true, "303.05", "4.13", "6.38"),
			crypto("Bitcoin", "BTC", "0.00271222", "95890.00", false, "0", "0", "0"),
			crypto("Polkadot", "DOT", "17.8306141", "5.71", true, "37.09", "8.11", "8.39"),
			crypto("Cardano", "ADA", "64.706973", "1.23", true, "25.20", "1.52", "1.49"),
		},
		RealEstate: domain.RealEstateHolding{
			LockedPrincipal: decimal.NewFromInt(500),
			LockedRate:      decimal.NewFromFloat(0.085),
			LiquidPrincipal: decimal.NewFromInt(1095),
			LiquidRate:      decimal.NewFromFloat(0.04),
			Royalties:       decimal.NewFromInt(200),
		},
		CashUSD: dec("204.20"),
		Orders: []domain.RecurringOrder{
			order("ETH", "Ethereum", "20", 14, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
			order("SOL", "Solana", "15", 14, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
			order("BTC", "Bitcoin", "20", 14, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
		},
	}
	s.EnsureDefaults()
	return s
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func equity(name, ticker, qty, price, sector, country, yield string) domain.EquityPosition {
	return domain.EquityPosition{
		Name:          name,
		Ticker:        ticker,
		Quantity:      dec(qty),
		PurchasePrice: dec(price),
		Sector:        sector,
		Country:       country,
		DividendYield: dec(yield),
	}
}

func crypto(name, ticker, qty, price string, staked bool, stakingValue, apy, gains string) domain.CryptoPosition {
	return domain.CryptoPosition{
		Name:             name,
		Ticker:           ticker,
		Quantity:         dec(qty),
		PurchasePriceUSD: dec(price),
		Staking: domain.StakingState{
			IsStaked: staked,
			ValueUSD: dec(stakingValue),
			APY:      dec(apy),
			GainsUSD: dec(gains),
		},
	}
}

func order(ticker, name, amount string, frequencyDays int, next time.Time) domain.RecurringOrder {
	return domain.RecurringOrder{
		Ticker:        ticker,
		Name:          name,
		AmountEUR:     dec(amount),
		FrequencyDays: frequencyDays,
		NextExecution: next,
	}
}
