package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Liability represents a debt owed by the portfolio owner (loan, financing, card balance)
type Liability struct {
	ID          uuid.UUID
	Owner       string
	Name        string
	Kind        string
	Original    decimal.Decimal
	Outstanding decimal.Decimal
	AnnualRate  decimal.Decimal
	TermMonths  int
	Installment decimal.Decimal
	Start       time.Time
	Status      string
}

// Validate ensures the liability adheres to domain rules
func (l *Liability) Validate() error {
	if l.Owner == "" {
		return fmt.Errorf("%w: liability owner cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: liability name cannot be empty", ErrInvalidInput)
	}
	if l.Original.IsNegative() || l.Outstanding.IsNegative() {
		return fmt.Errorf("%w: liability amounts cannot be negative", ErrInvalidInput)
	}
	if l.TermMonths < 0 {
		return fmt.Errorf("%w: liability term cannot be negative", ErrInvalidInput)
	}
	return nil
}
