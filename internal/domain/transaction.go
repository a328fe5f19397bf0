package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the direction of money for a holding
type TransactionKind string

const (
	TransactionKindContribution TransactionKind = "CONTRIBUTION"
	TransactionKindWithdrawal   TransactionKind = "WITHDRAWAL"
)

// Transaction represents a contribution to or withdrawal from a holding.
// Transactions are immutable once created; deleting one triggers a full
// recomputation of the owning holding.
type Transaction struct {
	ID        uuid.UUID
	HoldingID uuid.UUID
	Timestamp time.Time
	Kind      TransactionKind
	Amount    decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Quantity  decimal.Decimal // units, only meaningful for price-quoted holdings

	// Realized fields, populated only when the transaction is an actual exit
	RealizedProfit decimal.Decimal
	ShortTermTax   decimal.Decimal
	IncomeTax      decimal.Decimal
	NetAmount      decimal.Decimal
}

// Validate ensures the transaction adheres to domain rules
// Returns an error wrapping ErrInvalidInput if validation fails
func (t *Transaction) Validate() error {
	if t.HoldingID == uuid.Nil {
		return fmt.Errorf("%w: transaction must reference a holding", ErrInvalidInput)
	}
	if t.Kind != TransactionKindContribution && t.Kind != TransactionKindWithdrawal {
		return fmt.Errorf("%w: transaction kind must be CONTRIBUTION or WITHDRAWAL", ErrInvalidInput)
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transaction amount must be positive", ErrInvalidInput)
	}
	if t.Quantity.IsNegative() {
		return fmt.Errorf("%w: transaction quantity cannot be negative", ErrInvalidInput)
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("%w: transaction timestamp is required", ErrInvalidInput)
	}
	return nil
}

// IsContribution reports whether money flows into the holding
func (t *Transaction) IsContribution() bool {
	return t.Kind == TransactionKindContribution
}

// SortChronologically returns a copy of txs ordered by timestamp ascending.
// Transactions sharing a timestamp keep their relative order.
func SortChronologically(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
