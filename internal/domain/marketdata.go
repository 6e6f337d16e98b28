package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// EquityQuote is the latest observed price of a listed instrument.
type EquityQuote struct {
	Price     decimal.Decimal `json:"price"`      // unit price in EUR
	Change24h decimal.Decimal `json:"change_24h"` // percent change over the last day
}

// CryptoQuote is the latest observed price of a crypto asset.
type CryptoQuote struct {
	PriceUSD  decimal.Decimal `json:"price_usd"`
	PriceEUR  decimal.Decimal `json:"price_eur"`
	Change24h decimal.Decimal `json:"change_24h"`
}

// CryptoPriceSource supplies spot prices for a set of crypto tickers.
// Implementations must tolerate partial results: tickers absent from the
// response are simply missing from the returned map, never an error.
type CryptoPriceSource interface {
	GetPrices(ctx context.Context, tickers []string) (map[string]CryptoQuote, error)
}

// EquityPriceSource supplies quotes for a set of listed tickers. Partial
// results follow the same contract as CryptoPriceSource.
type EquityPriceSource interface {
	GetQuotes(ctx context.Context, tickers []string) (map[string]EquityQuote, error)
}

// FXRateSource supplies a single scalar USD to EUR conversion rate.
type FXRateSource interface {
	GetRate(ctx context.Context) (decimal.Decimal, error)
}
