package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// History categories tracked across refreshes.
const (
	CategoryEquities = "equities"
	CategoryCrypto   = "crypto"
	CategoryTotal    = "total"
)

// DefaultFXRateUSDEUR is the hardcoded fallback applied when no FX rate has
// ever been fetched successfully.
var DefaultFXRateUSDEUR = decimal.NewFromFloat(0.92)

// Snapshot is the full durable state of the portfolio: raw positions, cash,
// schedule metadata, history series and the last known FX rate. All derived
// metrics (values, gains, aggregates) are pure functions of a snapshot and
// are recomputed every refresh, never persisted.
type Snapshot struct {
	Equities   []EquityPosition         `json:"equities"`
	Cryptos    []CryptoPosition         `json:"cryptos"`
	RealEstate RealEstateHolding        `json:"real_estate"`
	CashUSD    decimal.Decimal          `json:"cash_usd"` // un-invested balance on the crypto platform
	Orders     []RecurringOrder         `json:"orders"`
	History    map[string]HistorySeries `json:"history"`

	FXRateUSDEUR decimal.Decimal `json:"fx_rate_usd_eur"`
	LastUpdate   time.Time       `json:"last_update"`

	// Last fetched prices per ticker. Retained so a failed fetch degrades to
	// the last known price rather than an error.
	EquityPrices map[string]EquityQuote `json:"equity_prices"`
	CryptoPrices map[string]CryptoQuote `json:"crypto_prices"`
}

// Validate checks every position and order in the snapshot.
func (s *Snapshot) Validate() error {
	for i := range s.Equities {
		if err := s.Equities[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.Cryptos {
		if err := s.Cryptos[i].Validate(); err != nil {
			return err
		}
	}
	if err := s.RealEstate.Validate(); err != nil {
		return err
	}
	if s.CashUSD.IsNegative() {
		return errors.New("cash balance cannot be negative")
	}
	for i := range s.Orders {
		if err := s.Orders[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDefaults fills the sections a partially-populated snapshot may lack
// after loading older on-disk layouts.
func (s *Snapshot) EnsureDefaults() {
	if s.History == nil {
		s.History = map[string]HistorySeries{}
	}
	for _, cat := range []string{CategoryEquities, CategoryCrypto, CategoryTotal} {
		if _, ok := s.History[cat]; !ok {
			s.History[cat] = HistorySeries{}
		}
	}
	if s.EquityPrices == nil {
		s.EquityPrices = map[string]EquityQuote{}
	}
	if s.CryptoPrices == nil {
		s.CryptoPrices = map[string]CryptoQuote{}
	}
	if s.FXRateUSDEUR.IsZero() {
		s.FXRateUSDEUR = DefaultFXRateUSDEUR
	}
}
