package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// GetByID retrieves a holding by its ID
	// Returns an error wrapping ErrNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// Create creates a new holding
	Create(ctx context.Context, holding *Holding) error

	// Delete removes a holding together with its transactions
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves holdings, optionally filtered by owner
	// If owner is empty, returns every holding
	List(ctx context.Context, owner string) ([]*Holding, error)

	// UpdateBalance persists the derived gross / tax / net values as a single write
	UpdateBalance(ctx context.Context, id uuid.UUID, gross, tax, net decimal.Decimal) error
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// GetByID retrieves a transaction by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// Create creates a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByHolding retrieves every transaction of a holding, oldest first
	ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]Transaction, error)
}

// SnapshotRepository defines the interface for portfolio history persistence
type SnapshotRepository interface {
	// ReplaceForOwner deletes every snapshot of owner and inserts snapshots,
	// atomically. On error the previous snapshots remain in place.
	ReplaceForOwner(ctx context.Context, owner string, snapshots []Snapshot) error

	// List retrieves the owner's snapshots ordered by timestamp ascending
	List(ctx context.Context, owner string) ([]Snapshot, error)
}

// LiabilityRepository defines the interface for liability persistence operations
type LiabilityRepository interface {
	Create(ctx context.Context, liability *Liability) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, owner string) ([]*Liability, error)
}

// RateRepository defines the interface for reference rate persistence operations
type RateRepository interface {
	// Add records a new observation of a reference rate
	Add(ctx context.Context, rate *ReferenceRate) error

	// GetLatest retrieves the most recent observation of the named rate
	GetLatest(ctx context.Context, name string) (*ReferenceRate, error)
}

// PriceProvider looks up the current unit price of a price-quoted asset.
// A zero price means "no price available" and must never be applied.
type PriceProvider interface {
	Price(ctx context.Context, ticker string, mode IndexMode) (decimal.Decimal, error)
}

// RateProvider supplies the reference (CDI) rate for one top-level operation
type RateProvider interface {
	ReferenceRate(ctx context.Context) (decimal.Decimal, error)
}

// Clock supplies "now" so reference dates can be fixed in tests
type Clock interface {
	Now() time.Time
}
