package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EquityPosition represents a single stock or ETF holding.
// Purchase price, and therefore base cost, is stored explicitly and is the
// source of truth for invested capital; it is never back-solved from a
// performance percentage.
type EquityPosition struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	Quantity      decimal.Decimal `json:"quantity"`       // number of units, fractional allowed
	PurchasePrice decimal.Decimal `json:"purchase_price"` // unit price in EUR at purchase
	Sector        string          `json:"sector"`
	Country       string          `json:"country"`
	DividendYield decimal.Decimal `json:"dividend_yield"` // annual yield in percent, >= 0
}

// Validate ensures the position adheres to domain rules.
// Negative quantities and prices are rejected here, at the input boundary;
// the valuation engine assumes non-negative inputs as a precondition.
func (p *EquityPosition) Validate() error {
	if p.Name == "" {
		return errors.New("equity position name cannot be empty")
	}
	if p.Ticker == "" {
		return errors.New("equity position ticker cannot be empty")
	}
	if p.Quantity.IsNegative() {
		return errors.New("equity position quantity cannot be negative")
	}
	if p.PurchasePrice.IsNegative() {
		return errors.New("equity position purchase price cannot be negative")
	}
	if p.DividendYield.IsNegative() {
		return errors.New("equity position dividend yield cannot be negative")
	}
	return nil
}

// StakingState holds the platform-reported staking sub-state of a crypto
// position. When IsStaked is true and ValueUSD is positive, ValueUSD
// overrides spot-price valuation: staked tokens may be locked or illiquid,
// so the platform balance is authoritative, not mark-to-market spot.
type StakingState struct {
	IsStaked bool            `json:"is_staked"`
	ValueUSD decimal.Decimal `json:"value_usd"` // platform-reported balance of the staked position
	APY      decimal.Decimal `json:"apy"`       // annual percentage yield, percent
	GainsUSD decimal.Decimal `json:"gains_usd"` // accrued staking rewards, additive to price gain
}

// CryptoPosition represents a crypto holding purchased in USD.
type CryptoPosition struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Ticker           string          `json:"ticker"`
	Quantity         decimal.Decimal `json:"quantity"`
	PurchasePriceUSD decimal.Decimal `json:"purchase_price_usd"`
	Staking          StakingState    `json:"staking"`
}

// Validate ensures the position adheres to domain rules.
func (c *CryptoPosition) Validate() error {
	if c.Name == "" {
		return errors.New("crypto position name cannot be empty")
	}
	if c.Ticker == "" {
		return errors.New("crypto position ticker cannot be empty")
	}
	if c.Quantity.IsNegative() {
		return errors.New("crypto position quantity cannot be negative")
	}
	if c.PurchasePriceUSD.IsNegative() {
		return errors.New("crypto position purchase price cannot be negative")
	}
	if c.Staking.ValueUSD.IsNegative() {
		return errors.New("staking value cannot be negative")
	}
	if c.Staking.APY.IsNegative() {
		return errors.New("staking APY cannot be negative")
	}
	return nil
}
