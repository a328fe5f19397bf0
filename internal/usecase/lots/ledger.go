package lots

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

var (
	// ConsumeEpsilon is the amount below which a withdrawal or a lot counts as exhausted
	ConsumeEpsilon = decimal.RequireFromString("0.001")

	// LiveEpsilon is the value above which a lot still counts towards a holding's balance
	LiveEpsilon = decimal.RequireFromString("0.01")
)

// Grower grows a principal from origin to reference under an annual rate (%)
type Grower interface {
	Grow(principal decimal.Decimal, origin time.Time, annualRate decimal.Decimal, reference time.Time) decimal.Decimal
}

// Lot is a FIFO slice of contributed principal and its value as of the ledger's reference date
type Lot struct {
	Origin    time.Time
	Principal decimal.Decimal
	Value     decimal.Decimal
}

// Profit returns the lot's unrealized gain
func (l Lot) Profit() decimal.Decimal {
	return l.Value.Sub(l.Principal)
}

// Exit is the part of a lot consumed by one withdrawal
type Exit struct {
	Origin    time.Time // origin of the consumed lot
	At        time.Time // when the withdrawal happened
	Value     decimal.Decimal
	Principal decimal.Decimal
}

// Profit returns the gain realized by the exit
func (e Exit) Profit() decimal.Decimal {
	return e.Value.Sub(e.Principal)
}

// Ledger is the in-memory lot queue of a holding, rebuilt from its transactions on every call
type Ledger struct {
	Reference   time.Time
	Lots        []Lot
	Exits       []Exit
	Contributed decimal.Decimal
	Withdrawn   decimal.Decimal // matched against lots
	Unmatched   decimal.Decimal // withdrawal surplus that found no lot value
}

// Build replays txs in chronological order and returns the lots as of reference.
// Contributions are grown with grower at annualRate; withdrawals consume lots from the head.
// Input is validated up front, so an error means no lot was created.
func Build(txs []domain.Transaction, annualRate decimal.Decimal, reference time.Time, grower Grower) (*Ledger, error) {
	if err := Validate(txs); err != nil {
		return nil, err
	}

	ledger := &Ledger{
		Reference:   reference,
		Lots:        make([]Lot, 0, len(txs)),
		Contributed: decimal.Zero,
		Withdrawn:   decimal.Zero,
		Unmatched:   decimal.Zero,
	}

	for _, tx := range domain.SortChronologically(txs) {
		switch tx.Kind {
		case domain.TransactionKindContribution:
			ledger.Lots = append(ledger.Lots, Lot{
				Origin:    tx.Timestamp,
				Principal: tx.Amount,
				Value:     grower.Grow(tx.Amount, tx.Timestamp, annualRate, reference),
			})
			ledger.Contributed = ledger.Contributed.Add(tx.Amount)
		case domain.TransactionKindWithdrawal:
			unmatched := ledger.consume(tx.Amount, tx.Timestamp)
			ledger.Withdrawn = ledger.Withdrawn.Add(tx.Amount.Sub(unmatched))
			ledger.Unmatched = ledger.Unmatched.Add(unmatched)
		}
	}

	return ledger, nil
}

// consume removes amount from the lots, oldest first, and returns the part that could not be matched.
// A partially consumed lot keeps its profit ratio: value and principal shrink by the same fraction.
func (l *Ledger) consume(amount decimal.Decimal, at time.Time) decimal.Decimal {
	remaining := amount

	for i := range l.Lots {
		if remaining.LessThanOrEqual(ConsumeEpsilon) {
			break
		}

		lot := &l.Lots[i]
		if lot.Value.LessThanOrEqual(ConsumeEpsilon) {
			continue // exhausted
		}

		if remaining.GreaterThanOrEqual(lot.Value) {
			l.Exits = append(l.Exits, Exit{Origin: lot.Origin, At: at, Value: lot.Value, Principal: lot.Principal})
			remaining = remaining.Sub(lot.Value)
			lot.Value = decimal.Zero
			lot.Principal = decimal.Zero
			continue
		}

		fraction := remaining.Div(lot.Value)
		principalTaken := lot.Principal.Mul(fraction)
		l.Exits = append(l.Exits, Exit{Origin: lot.Origin, At: at, Value: remaining, Principal: principalTaken})
		lot.Value = lot.Value.Sub(remaining)
		lot.Principal = lot.Principal.Sub(principalTaken)
		remaining = decimal.Zero
	}

	if remaining.LessThanOrEqual(ConsumeEpsilon) {
		return decimal.Zero
	}
	return remaining
}

// Live returns the lots whose value is above LiveEpsilon
func (l *Ledger) Live() []Lot {
	live := make([]Lot, 0, len(l.Lots))
	for _, lot := range l.Lots {
		if lot.Value.GreaterThan(LiveEpsilon) {
			live = append(live, lot)
		}
	}
	return live
}

// TotalValue returns the sum of every lot's value
func (l *Ledger) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(lot.Value)
	}
	return total
}

// TotalPrincipal returns the sum of every lot's remaining principal
func (l *Ledger) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(lot.Principal)
	}
	return total
}

// Validate rejects transactions the ledger cannot replay
func Validate(txs []domain.Transaction) error {
	for i := range txs {
		tx := &txs[i]
		if tx.Timestamp.IsZero() {
			return fmt.Errorf("%w: transaction %s has no timestamp", domain.ErrInvalidInput, tx.ID)
		}
		if tx.Amount.IsNegative() {
			return fmt.Errorf("%w: transaction %s has a negative amount", domain.ErrInvalidInput, tx.ID)
		}
		if tx.Kind != domain.TransactionKindContribution && tx.Kind != domain.TransactionKindWithdrawal {
			return fmt.Errorf("%w: transaction %s has unknown kind %q", domain.ErrInvalidInput, tx.ID, tx.Kind)
		}
	}
	return nil
}
