package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEquityPosition_Validate(t *testing.T) {
	tests := []struct {
		name     string
		position EquityPosition
		wantErr  bool
		errMsg   string
	}{
		{
			name: "Valid position should pass",
			position: EquityPosition{
				ID:            uuid.New(),
				Name:          "Total Energie",
				Ticker:        "TTE.PA",
				Quantity:      decimal.NewFromFloat(5.136355),
				PurchasePrice: decimal.NewFromFloat(54.32),
				Sector:        "Energy",
				Country:       "France",
				DividendYield: decimal.NewFromFloat(5.2),
			},
			wantErr: false,
		},
		{
			name: "Zero quantity should pass",
			position: EquityPosition{
				ID:            uuid.New(),
				Name:          "Apple",
				Ticker:        "AAPL",
				Quantity:      decimal.Zero,
				PurchasePrice: decimal.NewFromFloat(200.25),
			},
			wantErr: false,
		},
		{
			name: "Empty name should fail",
			position: EquityPosition{
				ID:            uuid.New(),
				Ticker:        "AAPL",
				Quantity:      decimal.NewFromInt(1),
				PurchasePrice: decimal.NewFromInt(100),
			},
			wantErr: true,
			errMsg:  "name cannot be empty",
		},
		{
			name: "Empty ticker should fail",
			position: EquityPosition{
				ID:            uuid.New(),
				Name:          "Apple",
				Quantity:      decimal.NewFromInt(1),
				PurchasePrice: decimal.NewFromInt(100),
			},
			wantErr: true,
			errMsg:  "ticker cannot be empty",
		},
		{
			name: "Negative quantity should fail",
			position: EquityPosition{
				ID:            uuid.New(),
				Name:          "Apple",
				Ticker:        "AAPL",
				Quantity:      decimal.NewFromInt(-1),
				PurchasePrice: decimal.NewFromInt(100),
			},
			wantErr: true,
			errMsg:  "quantity cannot be negative",
		},
		{
			name: "Negative purchase price should fail",
			position: EquityPosition{
				ID:            uuid.New(),
				Name:          "Apple",
				Ticker:        "AAPL",
				Quantity:      decimal.NewFromInt(1),
				PurchasePrice: decimal.NewFromInt(-100),
			},
			wantErr: true,
			errMsg:  "purchase price cannot be negative",
		},
		{
			name: "Negative dividend yield should fail",
			position: EquityPosition{
				ID:            uuid.New(),
				Name:          "Apple",
				Ticker:        "AAPL",
				Quantity:      decimal.NewFromInt(1),
				PurchasePrice: decimal.NewFromInt(100),
				DividendYield: decimal.NewFromFloat(-0.5),
			},
			wantErr: true,
			errMsg:  "dividend yield cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.position.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCryptoPosition_Validate(t *testing.T) {
	tests := []struct {
		name     string
		position CryptoPosition
		wantErr  bool
		errMsg   string
	}{
		{
			name: "Valid staked position should pass",
			position: CryptoPosition{
				ID:               uuid.New(),
				Name:             "Ethereum",
				Ticker:           "ETH",
				Quantity:         decimal.NewFromFloat(0.21283369),
				PurchasePriceUSD: decimal.NewFromFloat(2876.50),
				Staking: StakingState{
					IsStaked: true,
					ValueUSD: decimal.NewFromFloat(656.01),
					APY:      decimal.NewFromFloat(1.86),
					GainsUSD: decimal.NewFromFloat(23.38),
				},
			},
			wantErr: false,
		},
		{
			name: "Negative quantity should fail",
			position: CryptoPosition{
				ID:               uuid.New(),
				Name:             "Bitcoin",
				Ticker:           "BTC",
				Quantity:         decimal.NewFromFloat(-0.001),
				PurchasePriceUSD: decimal.NewFromInt(95890),
			},
			wantErr: true,
			errMsg:  "quantity cannot be negative",
		},
		{
			name: "Negative staking value should fail",
			position: CryptoPosition{
				ID:               uuid.New(),
				Name:             "Solana",
				Ticker:           "SOL",
				Quantity:         decimal.NewFromInt(2),
				PurchasePriceUSD: decimal.NewFromFloat(129.53),
				Staking: StakingState{
					IsStaked: true,
					ValueUSD: decimal.NewFromInt(-10),
				},
			},
			wantErr: true,
			errMsg:  "staking value cannot be negative",
		},
		{
			name: "Empty ticker should fail",
			position: CryptoPosition{
				ID:               uuid.New(),
				Name:             "Cardano",
				Quantity:         decimal.NewFromInt(10),
				PurchasePriceUSD: decimal.NewFromFloat(1.23),
			},
			wantErr: true,
			errMsg:  "ticker cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.position.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
