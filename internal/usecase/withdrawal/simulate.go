package withdrawal

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/lots"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/tax"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/timevalue"
)

// factorLot is a lot kept as remaining principal and growth factor.
// Its current value is principal * factor, recomputed on demand, so repeated
// partial consumption never accumulates rounding on the value itself.
type factorLot struct {
	origin    time.Time
	principal decimal.Decimal
	factor    decimal.Decimal
}

func (l factorLot) value() decimal.Decimal {
	return l.principal.Mul(l.factor)
}

// Simulate answers "what if amount were withdrawn from holding at now"
// Logic:
//  1. Replay txs into growth-factor lots, consuming past withdrawals FIFO
//  2. Apply amount FIFO against the remaining lots
//  3. For every consumed slice: profit (floored at 0), short-term tax and income tax by days held
//
// Inputs are never modified. A hypothetical amount above the available value is simulated
// against what exists; the unmatched part carries no profit and no tax.
func Simulate(holding *domain.Holding, txs []domain.Transaction, amount, referenceRate decimal.Decimal, now time.Time) (*domain.WithdrawalSimulation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrInvalidInput)
	}
	if err := lots.Validate(txs); err != nil {
		return nil, err
	}

	queue := replay(txs, holding.EffectiveRate(referenceRate), now)

	result := &domain.WithdrawalSimulation{
		Gross:   amount,
		Details: make([]string, 0),
	}
	shortTerm := decimal.Zero
	income := decimal.Zero
	profitTotal := decimal.Zero

	remaining := amount
	for _, lot := range queue {
		if remaining.LessThanOrEqual(lots.ConsumeEpsilon) {
			break
		}
		if lot.principal.LessThanOrEqual(lots.ConsumeEpsilon) {
			continue
		}

		value := lot.value()
		taken, principalTaken := value, lot.principal
		if remaining.LessThan(value) {
			taken = remaining
			principalTaken = remaining.Div(lot.factor)
		}

		profit := decimal.Max(taken.Sub(principalTaken), decimal.Zero)
		days := timevalue.ElapsedDays(lot.origin, now)
		breakdown := tax.Calculate(profit, days, holding.Exempt)

		shortTerm = shortTerm.Add(breakdown.ShortTerm)
		income = income.Add(breakdown.Income)
		profitTotal = profitTotal.Add(profit)
		remaining = remaining.Sub(taken)

		incomeRate := tax.IncomeRate(days)
		if holding.Exempt {
			incomeRate = decimal.Zero
		}
		result.Details = append(result.Details, fmt.Sprintf("Lot %s: withdrew %s (profit %s, income tax %s%%)",
			lot.origin.Format("02/01/2006"),
			display(taken),
			display(profit),
			incomeRate.Mul(decimal.NewFromInt(100)).StringFixed(1),
		))
	}

	result.ShortTermTax = shortTerm.Round(2)
	result.IncomeTax = income.Round(2)
	result.TotalTax = shortTerm.Add(income).Round(2)
	result.RealizedProfit = profitTotal.Round(2)
	result.Net = amount.Sub(shortTerm).Sub(income).Round(2)

	return result, nil
}

// replay builds the current lot state from the full history
func replay(txs []domain.Transaction, annualRate decimal.Decimal, now time.Time) []factorLot {
	queue := make([]factorLot, 0, len(txs))

	for _, tx := range domain.SortChronologically(txs) {
		switch tx.Kind {
		case domain.TransactionKindContribution:
			factor := decimal.NewFromInt(1)
			if tx.Amount.IsPositive() {
				factor = timevalue.Default.Factor(tx.Timestamp, annualRate, now)
			}
			queue = append(queue, factorLot{origin: tx.Timestamp, principal: tx.Amount, factor: factor})
		case domain.TransactionKindWithdrawal:
			consume(queue, tx.Amount)
		}
	}

	return queue
}

// consume removes amount (in current value) from the head of queue; any surplus is dropped
func consume(queue []factorLot, amount decimal.Decimal) {
	remaining := amount
	for i := range queue {
		if remaining.LessThanOrEqual(lots.ConsumeEpsilon) {
			return
		}
		value := queue[i].value()
		if value.LessThanOrEqual(lots.ConsumeEpsilon) {
			continue
		}
		if remaining.GreaterThanOrEqual(value) {
			remaining = remaining.Sub(value)
			queue[i].principal = decimal.Zero
			continue
		}
		queue[i].principal = queue[i].principal.Sub(remaining.Div(queue[i].factor))
		remaining = decimal.Zero
	}
}

func display(amount decimal.Decimal) string {
	return money.NewFromFloat(amount.InexactFloat64(), money.BRL).Display()
}
