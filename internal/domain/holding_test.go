package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		wantErr bool
		errMsg  string
	}{
		{
			name: "CDI holding should pass",
			holding: Holding{
				ID:        uuid.New(),
				Owner:     "alice",
				Name:      "CDB Banco X",
				IndexMode: IndexModeCDI,
				Rate:      decimal.NewFromInt(110),
			},
			wantErr: false,
		},
		{
			name: "Crypto holding with ticker should pass",
			holding: Holding{
				ID:        uuid.New(),
				Owner:     "alice",
				Name:      "Bitcoin",
				IndexMode: IndexModeCrypto,
				Ticker:    "bitcoin",
			},
			wantErr: false,
		},
		{
			name: "Price-quoted holding without ticker should fail",
			holding: Holding{
				Owner:     "alice",
				Name:      "PETR4",
				IndexMode: IndexModeEquity,
			},
			wantErr: true,
			errMsg:  "price-quoted holding must have a ticker",
		},
		{
			name: "Empty name should fail",
			holding: Holding{
				Owner:     "alice",
				Name:      "  ",
				IndexMode: IndexModeFixed,
			},
			wantErr: true,
			errMsg:  "holding name cannot be empty",
		},
		{
			name: "Missing owner should fail",
			holding: Holding{
				Name:      "Tesouro Prefixado",
				IndexMode: IndexModeFixed,
			},
			wantErr: true,
			errMsg:  "holding owner cannot be empty",
		},
		{
			name: "Unknown index mode should fail",
			holding: Holding{
				Owner:     "alice",
				Name:      "Mystery",
				IndexMode: IndexMode("SELIC"),
			},
			wantErr: true,
			errMsg:  "unknown index mode",
		},
		{
			name: "Negative rate should fail",
			holding: Holding{
				Owner:     "alice",
				Name:      "CDB",
				IndexMode: IndexModeFixed,
				Rate:      decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "holding rate cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holding.Validate()
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

func TestHolding_EffectiveRate(t *testing.T) {
	reference := decimal.RequireFromString("11.25")

	cdi := Holding{IndexMode: IndexModeCDI, Rate: decimal.NewFromInt(110)}
	assert.True(t, cdi.EffectiveRate(reference).Equal(decimal.RequireFromString("12.375")))

	fixed := Holding{IndexMode: IndexModeFixed, Rate: decimal.NewFromInt(12)}
	assert.True(t, fixed.EffectiveRate(reference).Equal(decimal.NewFromInt(12)))
}

func TestIndexMode_PriceQuoted(t *testing.T) {
	assert.True(t, IndexModeEquity.PriceQuoted())
	assert.True(t, IndexModeCrypto.PriceQuoted())
	assert.True(t, IndexModeForeign.PriceQuoted())
	assert.False(t, IndexModeCDI.PriceQuoted())
	assert.False(t, IndexModeFixed.PriceQuoted())
	assert.False(t, IndexModeInflation.PriceQuoted())
	assert.False(t, IndexModeManual.PriceQuoted())
}

func TestDeriveExempt(t *testing.T) {
	assert.True(t, DeriveExempt("LCI Banco Inter 95%"))
	assert.True(t, DeriveExempt("lca agro"))
	assert.True(t, DeriveExempt("Debenture Isento"))
	assert.False(t, DeriveExempt("CDB Nubank"))
}
