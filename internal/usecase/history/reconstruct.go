package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/lots"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/timevalue"
)

// Reconstruct rebuilds the owner's daily portfolio series from the full transaction history
// Logic:
//  1. No transactions: a single zero snapshot at now
//  2. Dates = distinct calendar days of every transaction plus today, ascending
//  3. For each date D, valued at D 23:59:59:
//     - inflow / outflow = transactions dated exactly D
//     - rate-indexed holdings: FIFO lots over transactions up to D, gross = sum of lot values
//     - price-quoted holdings: cost basis, replaced by the live gross value on the last date
//     - invested = contributions - withdrawals up to D, floored at zero per holding
//
// Dates are taken in now's location. Any invalid transaction fails the whole reconstruction.
func Reconstruct(
	owner string,
	holdings []*domain.Holding,
	txsByHolding map[uuid.UUID][]domain.Transaction,
	referenceRate decimal.Decimal,
	now time.Time,
) ([]domain.Snapshot, error) {
	loc := now.Location()

	all := make([]domain.Transaction, 0)
	for _, holding := range holdings {
		txs := txsByHolding[holding.ID]
		if err := lots.Validate(txs); err != nil {
			return nil, fmt.Errorf("holding %s: %w", holding.ID, err)
		}
		all = append(all, txs...)
	}

	if len(all) == 0 {
		return []domain.Snapshot{{
			Owner:     owner,
			Timestamp: now,
			Gross:     decimal.Zero,
			Invested:  decimal.Zero,
			Inflow:    decimal.Zero,
			Outflow:   decimal.Zero,
		}}, nil
	}

	dates := distinctDates(all, now)
	lastDate := dates[len(dates)-1]

	snapshots := make([]domain.Snapshot, 0, len(dates))
	for _, date := range dates {
		reference := endOfDay(date)

		inflow, outflow := dayFlows(all, date, loc)

		gross := decimal.Zero
		invested := decimal.Zero
		for _, holding := range holdings {
			upTo := until(txsByHolding[holding.ID], reference)
			if len(upTo) == 0 {
				continue
			}

			basis := costBasis(upTo)
			invested = invested.Add(decimal.Max(basis, decimal.Zero))

			if holding.IsPriceQuoted() {
				if date.Equal(lastDate) && holding.GrossValue.IsPositive() {
					gross = gross.Add(holding.GrossValue)
				} else {
					gross = gross.Add(decimal.Max(basis, decimal.Zero))
				}
				continue
			}

			ledger, err := lots.Build(upTo, holding.EffectiveRate(referenceRate), reference, timevalue.Default)
			if err != nil {
				return nil, fmt.Errorf("holding %s on %s: %w", holding.ID, date.Format(time.DateOnly), err)
			}
			gross = gross.Add(ledger.TotalValue())
		}

		snapshots = append(snapshots, domain.Snapshot{
			Owner:     owner,
			Timestamp: reference,
			Gross:     gross.Round(2),
			Invested:  invested.Round(2),
			Inflow:    inflow.Round(2),
			Outflow:   outflow.Round(2),
		})
	}

	return snapshots, nil
}

// distinctDates returns the calendar days of txs plus the day of now, ascending, at midnight in now's location
func distinctDates(txs []domain.Transaction, now time.Time) []time.Time {
	loc := now.Location()
	seen := map[time.Time]struct{}{startOfDay(now, loc): {}}
	for _, tx := range txs {
		seen[startOfDay(tx.Timestamp, loc)] = struct{}{}
	}

	dates := make([]time.Time, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
}

func dayFlows(txs []domain.Transaction, date time.Time, loc *time.Location) (inflow, outflow decimal.Decimal) {
	inflow, outflow = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if !startOfDay(tx.Timestamp, loc).Equal(date) {
			continue
		}
		if tx.IsContribution() {
			inflow = inflow.Add(tx.Amount)
		} else {
			outflow = outflow.Add(tx.Amount)
		}
	}
	return inflow, outflow
}

// until returns the transactions at or before reference
func until(txs []domain.Transaction, reference time.Time) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Timestamp.After(reference) {
			out = append(out, tx)
		}
	}
	return out
}

// costBasis is contributions minus withdrawals, not floored
func costBasis(txs []domain.Transaction) decimal.Decimal {
	basis := decimal.Zero
	for _, tx := range txs {
		if tx.IsContribution() {
			basis = basis.Add(tx.Amount)
		} else {
			basis = basis.Sub(tx.Amount)
		}
	}
	return basis
}
