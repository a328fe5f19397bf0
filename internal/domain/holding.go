package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IndexMode represents how a holding's value evolves over time
type IndexMode string

const (
	IndexModeManual    IndexMode = "MANUAL" // fixed rate typed in by the owner
	IndexModeFixed     IndexMode = "PRE"    // pre-fixed annual rate
	IndexModeInflation IndexMode = "IPCA"   // inflation-linked, nominal rate used as-is
	IndexModeCDI       IndexMode = "CDI"    // percentage of the reference (CDI) rate
	IndexModeEquity    IndexMode = "B3"     // price-quoted stock or fund
	IndexModeCrypto    IndexMode = "CRYPTO" // price-quoted crypto asset
	IndexModeForeign   IndexMode = "USA"    // price-quoted foreign equity
)

// Holding statuses
const (
	HoldingStatusActive = "ACTIVE"
	HoldingStatusClosed = "CLOSED"
)

// exemptionMarkers are the legacy name fragments that flagged tax-exempt products
var exemptionMarkers = []string{"LCI", "LCA", "ISENTO"}

// Holding represents a single tracked investment position.
// GrossValue, EstimatedTax and NetValue are derived by the balance engine
// and must never be edited directly.
type Holding struct {
	ID        uuid.UUID
	Owner     string
	Name      string
	Category  string
	IndexMode IndexMode
	Rate      decimal.Decimal // % a.a. for fixed modes, % of CDI for CDI
	Ticker    string          // only used by price-quoted modes
	Exempt    bool            // income tax exempt (LCI/LCA style products)
	Status    string

	GrossValue   decimal.Decimal
	EstimatedTax decimal.Decimal
	NetValue     decimal.Decimal
}

// Validate ensures the holding adheres to domain rules
func (h *Holding) Validate() error {
	if h.Owner == "" {
		return fmt.Errorf("%w: holding owner cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: holding name cannot be empty", ErrInvalidInput)
	}
	if !h.IndexMode.Valid() {
		return fmt.Errorf("%w: unknown index mode %q", ErrInvalidInput, h.IndexMode)
	}
	if h.Rate.IsNegative() {
		return fmt.Errorf("%w: holding rate cannot be negative", ErrInvalidInput)
	}
	if h.IsPriceQuoted() && h.Ticker == "" {
		return fmt.Errorf("%w: price-quoted holding must have a ticker", ErrInvalidInput)
	}
	return nil
}

// IsPriceQuoted reports whether the holding is valued by an external market price
func (h *Holding) IsPriceQuoted() bool {
	return h.IndexMode.PriceQuoted()
}

// EffectiveRate returns the annual rate (in percent) that drives the holding's growth.
// CDI holdings earn a percentage of the reference rate; every other mode uses Rate directly.
func (h *Holding) EffectiveRate(referenceRate decimal.Decimal) decimal.Decimal {
	if h.IndexMode == IndexModeCDI {
		return referenceRate.Mul(h.Rate).Div(decimal.NewFromInt(100))
	}
	return h.Rate
}

// Valid reports whether m is one of the known index modes
func (m IndexMode) Valid() bool {
	switch m {
	case IndexModeManual, IndexModeFixed, IndexModeInflation, IndexModeCDI,
		IndexModeEquity, IndexModeCrypto, IndexModeForeign:
		return true
	}
	return false
}

// PriceQuoted reports whether holdings in this mode are valued by unit price x quantity
func (m IndexMode) PriceQuoted() bool {
	return m == IndexModeEquity || m == IndexModeCrypto || m == IndexModeForeign
}

// DeriveExempt seeds the Exempt flag from a legacy product name.
// It is only consulted when a holding is created; afterwards the flag is authoritative.
func DeriveExempt(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range exemptionMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
