package balance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/lots"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/tax"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/timevalue"
)

// Tolerance is how far past the gross value a withdrawal may go before it counts as exceeding it
var Tolerance = decimal.RequireFromString("0.01")

// Result is the derived balance of a rate-indexed holding
type Result struct {
	Gross decimal.Decimal
	Tax   decimal.Decimal
	Net   decimal.Decimal
}

// Recompute derives a holding's gross value, estimated tax and net value from its full history
// Logic:
//  1. Replay every transaction into FIFO lots grown to now
//  2. For every live lot with profit, tax the profit by the days since the lot's origin
//  3. Gross = sum of lot values, Tax = sum of taxes, Net = Gross - Tax (rounded to cents)
//
// The function is pure: the same history and now always yield the same Result.
func Recompute(holding *domain.Holding, txs []domain.Transaction, referenceRate decimal.Decimal, now time.Time) (Result, error) {
	if holding.IsPriceQuoted() {
		return Result{}, fmt.Errorf("%w: %s is priced by market quote", domain.ErrNotRateIndexed, holding.Name)
	}

	ledger, err := lots.Build(txs, holding.EffectiveRate(referenceRate), now, timevalue.Default)
	if err != nil {
		return Result{}, err
	}

	gross := decimal.Zero
	totalTax := decimal.Zero

	for _, lot := range ledger.Live() {
		gross = gross.Add(lot.Value)

		profit := lot.Profit()
		if !profit.IsPositive() {
			continue
		}

		days := timevalue.ElapsedDays(lot.Origin, now)
		totalTax = totalTax.Add(tax.Calculate(profit, days, holding.Exempt).Total())
	}

	return Result{
		Gross: gross.Round(2),
		Tax:   totalTax.Round(2),
		Net:   gross.Sub(totalTax).Round(2),
	}, nil
}
