package timevalue

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// calendarWeeks counts real business days; used to prove the converter is swappable
type calendarWeeks struct{}

func (calendarWeeks) BusinessDays(calendarDays int) int { return calendarDays }

func TestGrow_ZeroElapsedTimeReturnsPrincipal(t *testing.T) {
	origin := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	principal := decimal.NewFromInt(1000)

	got := Grow(principal, origin, decimal.NewFromInt(12), origin)

	assert.True(t, got.Equal(principal))
}

func TestGrow_ZeroRateReturnsPrincipal(t *testing.T) {
	origin := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	principal := decimal.NewFromInt(1000)

	for _, reference := range []time.Time{origin.AddDate(0, 0, 1), origin.AddDate(1, 0, 0), origin.AddDate(10, 0, 0)} {
		got := Grow(principal, origin, decimal.Zero, reference)
		assert.True(t, got.Equal(principal), "reference %s", reference)
	}
}

func TestGrow_NegativeElapsedTimeReturnsPrincipal(t *testing.T) {
	origin := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	principal := decimal.NewFromInt(1000)

	got := Grow(principal, origin, decimal.NewFromInt(12), origin.AddDate(0, 0, -30))

	assert.True(t, got.Equal(principal))
}

func TestGrow_NonPositivePrincipalUnchanged(t *testing.T) {
	origin := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reference := origin.AddDate(1, 0, 0)

	assert.True(t, Grow(decimal.Zero, origin, decimal.NewFromInt(12), reference).IsZero())
	assert.True(t, Grow(decimal.NewFromInt(-5), origin, decimal.NewFromInt(12), reference).Equal(decimal.NewFromInt(-5)))
}

func TestGrow_OneTradingYear(t *testing.T) {
	// 353 calendar days * 5/7 = 252.14 -> 252 business days, one full trading year
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reference := origin.AddDate(0, 0, 353)

	got := Grow(decimal.NewFromInt(1000), origin, decimal.NewFromInt(12), reference)

	assert.InDelta(t, 1120.0, got.InexactFloat64(), 0.01)
}

func TestFactor_NoGrowthIsOne(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, Default.Factor(origin, decimal.Zero, origin.AddDate(1, 0, 0)).Equal(decimal.NewFromInt(1)))
	assert.True(t, Default.Factor(origin, decimal.NewFromInt(10), origin).Equal(decimal.NewFromInt(1)))
}

func TestEngine_CustomConverter(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reference := origin.AddDate(0, 0, 252)

	engine := NewEngine(calendarWeeks{})
	got := engine.Grow(decimal.NewFromInt(1000), origin, decimal.NewFromInt(12), reference)

	assert.InDelta(t, 1120.0, got.InexactFloat64(), 0.01)
}

func TestFiveSevenths_BusinessDays(t *testing.T) {
	c := FiveSevenths{}
	assert.Equal(t, 0, c.BusinessDays(-3))
	assert.Equal(t, 0, c.BusinessDays(1))
	assert.Equal(t, 5, c.BusinessDays(7))
	assert.Equal(t, 7, c.BusinessDays(10))
	assert.Equal(t, 252, c.BusinessDays(353))
}

func TestElapsedDays(t *testing.T) {
	origin := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, ElapsedDays(origin, origin.Add(23*time.Hour)))
	assert.Equal(t, 1, ElapsedDays(origin, origin.Add(25*time.Hour)))
	assert.Equal(t, -1, ElapsedDays(origin, origin.Add(-time.Hour)))
	assert.Equal(t, 40, ElapsedDays(origin, origin.AddDate(0, 0, 40)))
}
