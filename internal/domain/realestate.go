package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// RealEstateHolding represents tokenized real-estate principal split across
// two liquidity tiers, each accruing interest at its own annual rate, plus a
// royalties principal that does not accrue.
//
// This asset class is modeled as principal + accrual only: accrued interest
// is always >= 0 and the holding is never marked down.
type RealEstateHolding struct {
	LockedPrincipal decimal.Decimal `json:"locked_principal"` // tier with a lock-up period
	LockedRate      decimal.Decimal `json:"locked_rate"`      // annual rate as a fraction, e.g. 0.085
	LiquidPrincipal decimal.Decimal `json:"liquid_principal"` // tier redeemable at any time
	LiquidRate      decimal.Decimal `json:"liquid_rate"`
	Royalties       decimal.Decimal `json:"royalties"` // non-accruing principal
}

// Validate ensures the holding adheres to domain rules.
func (h *RealEstateHolding) Validate() error {
	if h.LockedPrincipal.IsNegative() || h.LiquidPrincipal.IsNegative() || h.Royalties.IsNegative() {
		return errors.New("real estate principal cannot be negative")
	}
	one := decimal.NewFromInt(1)
	if h.LockedRate.IsNegative() || h.LockedRate.GreaterThan(one) {
		return errors.New("locked rate must be between 0 and 1")
	}
	if h.LiquidRate.IsNegative() || h.LiquidRate.GreaterThan(one) {
		return errors.New("liquid rate must be between 0 and 1")
	}
	return nil
}

// Invested returns the principal put into the holding, excluding accruals.
func (h *RealEstateHolding) Invested() decimal.Decimal {
	return h.LockedPrincipal.Add(h.LiquidPrincipal).Add(h.Royalties)
}
