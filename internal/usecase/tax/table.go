package tax

import "github.com/shopspring/decimal"

// ShortTermWindowDays is the holding period from which short-term tax no longer applies
const ShortTermWindowDays = 30

// shortTermPercent is the regressive short-term (IOF) table, indexed by days held
var shortTermPercent = [ShortTermWindowDays]int64{
	100, 96, 93, 90, 86, 83, 80, 76, 73, 70,
	66, 63, 60, 56, 53, 50, 46, 43, 40, 36,
	33, 30, 26, 23, 20, 16, 13, 10, 6, 3,
}

// incomeBracket is one step of the regressive income tax schedule
type incomeBracket struct {
	maxDays int
	rate    decimal.Decimal
}

var incomeBrackets = []incomeBracket{
	{maxDays: 180, rate: decimal.RequireFromString("0.225")},
	{maxDays: 360, rate: decimal.RequireFromString("0.20")},
	{maxDays: 720, rate: decimal.RequireFromString("0.175")},
}

var longTermIncomeRate = decimal.RequireFromString("0.15")

// ShortTermRate returns the short-term tax rate (as a fraction) for a holding of days
func ShortTermRate(days int) decimal.Decimal {
	if days < 0 || days >= ShortTermWindowDays {
		return decimal.Zero
	}
	return decimal.New(shortTermPercent[days], -2)
}

// IncomeRate returns the income tax rate (as a fraction) for a holding of days
func IncomeRate(days int) decimal.Decimal {
	for _, bracket := range incomeBrackets {
		if days <= bracket.maxDays {
			return bracket.rate
		}
	}
	return longTermIncomeRate
}
