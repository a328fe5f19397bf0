package tax

import "github.com/shopspring/decimal"

// Breakdown holds the two tax components due on a realized profit
type Breakdown struct {
	ShortTerm decimal.Decimal
	Income    decimal.Decimal
}

// Total returns the sum of both components
func (b Breakdown) Total() decimal.Decimal {
	return b.ShortTerm.Add(b.Income)
}

// Calculate computes the taxes due on profit realized after holding for holdingDays
// Logic:
//  1. profit <= 0: nothing is due
//  2. short-term tax = profit * ShortTermRate(days)
//  3. income tax = (profit - short-term tax) * IncomeRate(days), or zero when exempt
//
// Exemption only waives income tax; short-term tax still applies.
func Calculate(profit decimal.Decimal, holdingDays int, exempt bool) Breakdown {
	if profit.LessThanOrEqual(decimal.Zero) {
		return Breakdown{ShortTerm: decimal.Zero, Income: decimal.Zero}
	}

	shortTerm := profit.Mul(ShortTermRate(holdingDays))

	income := decimal.Zero
	if !exempt {
		income = profit.Sub(shortTerm).Mul(IncomeRate(holdingDays))
	}

	return Breakdown{ShortTerm: shortTerm, Income: income}
}
