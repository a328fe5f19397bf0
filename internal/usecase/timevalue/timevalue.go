package timevalue

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// TradingDaysPerYear is the business-day convention used to turn an annual rate into a daily one
const TradingDaysPerYear = 252

// BusinessDayConverter turns elapsed calendar days into business days
type BusinessDayConverter interface {
	BusinessDays(calendarDays int) int
}

// FiveSevenths approximates business days as 5/7 of calendar days, truncated.
// It knows nothing about weekends falling on specific dates or holidays.
type FiveSevenths struct{}

// BusinessDays returns trunc(calendarDays * 5 / 7), or 0 for non-positive input
func (FiveSevenths) BusinessDays(calendarDays int) int {
	if calendarDays <= 0 {
		return 0
	}
	return calendarDays * 5 / 7
}

// Engine grows principal amounts forward in time under an effective annual rate
type Engine struct {
	Converter BusinessDayConverter
}

// NewEngine creates an Engine using the given business-day converter
func NewEngine(converter BusinessDayConverter) *Engine {
	return &Engine{Converter: converter}
}

// Default is the engine used by the balance, history and withdrawal computations
var Default = NewEngine(FiveSevenths{})

// Grow returns the value of principal invested at origin, as of reference, compounded daily at annualRate (%)
// Logic:
//   - annualRate <= 0 or principal <= 0: principal is returned unchanged
//   - elapsed calendar days <= 0: principal is returned unchanged (no negative-time growth)
//   - otherwise principal * (1 + daily)^businessDays with daily = (1 + rate/100)^(1/252) - 1
func (e *Engine) Grow(principal decimal.Decimal, origin time.Time, annualRate decimal.Decimal, reference time.Time) decimal.Decimal {
	if principal.LessThanOrEqual(decimal.Zero) || annualRate.LessThanOrEqual(decimal.Zero) {
		return principal
	}
	if ElapsedDays(origin, reference) <= 0 {
		return principal
	}
	return principal.Mul(e.Factor(origin, annualRate, reference))
}

// Factor returns the growth ratio (value / principal) for money invested at origin, as of reference.
// The ratio is 1 when there is no rate or no elapsed time.
func (e *Engine) Factor(origin time.Time, annualRate decimal.Decimal, reference time.Time) decimal.Decimal {
	days := ElapsedDays(origin, reference)
	if annualRate.LessThanOrEqual(decimal.Zero) || days <= 0 {
		return decimal.NewFromInt(1)
	}

	businessDays := e.Converter.BusinessDays(days)
	rate := annualRate.InexactFloat64() / 100
	daily := math.Pow(1+rate, 1.0/TradingDaysPerYear) - 1

	return decimal.NewFromFloat(math.Pow(1+daily, float64(businessDays)))
}

// Grow grows principal with the Default engine
func Grow(principal decimal.Decimal, origin time.Time, annualRate decimal.Decimal, reference time.Time) decimal.Decimal {
	return Default.Grow(principal, origin, annualRate, reference)
}

// ElapsedDays returns the number of whole days from origin to reference.
// Partial days are floored, so a reference one hour before origin yields -1.
func ElapsedDays(origin, reference time.Time) int {
	return int(math.Floor(reference.Sub(origin).Hours() / 24))
}
