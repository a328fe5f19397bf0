// Package mocks provides testify mocks of the domain ports shared by the usecase tests
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// HoldingRepository is a mock implementation of domain.HoldingRepository
type HoldingRepository struct {
	mock.Mock
}

func (m *HoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *HoldingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *HoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *HoldingRepository) List(ctx context.Context, owner string) ([]*domain.Holding, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *HoldingRepository) UpdateBalance(ctx context.Context, id uuid.UUID, gross, tax, net decimal.Decimal) error {
	args := m.Called(ctx, id, gross, tax, net)
	return args.Error(0)
}

// TransactionRepository is a mock implementation of domain.TransactionRepository
type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TransactionRepository) ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]domain.Transaction, error) {
	args := m.Called(ctx, holdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// SnapshotRepository is a mock implementation of domain.SnapshotRepository
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) ReplaceForOwner(ctx context.Context, owner string, snapshots []domain.Snapshot) error {
	args := m.Called(ctx, owner, snapshots)
	return args.Error(0)
}

func (m *SnapshotRepository) List(ctx context.Context, owner string) ([]domain.Snapshot, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Snapshot), args.Error(1)
}

// LiabilityRepository is a mock implementation of domain.LiabilityRepository
type LiabilityRepository struct {
	mock.Mock
}

func (m *LiabilityRepository) Create(ctx context.Context, liability *domain.Liability) error {
	args := m.Called(ctx, liability)
	return args.Error(0)
}

func (m *LiabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LiabilityRepository) List(ctx context.Context, owner string) ([]*domain.Liability, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Liability), args.Error(1)
}

// RateRepository is a mock implementation of domain.RateRepository
type RateRepository struct {
	mock.Mock
}

func (m *RateRepository) Add(ctx context.Context, rate *domain.ReferenceRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *RateRepository) GetLatest(ctx context.Context, name string) (*domain.ReferenceRate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferenceRate), args.Error(1)
}

// PriceProvider is a mock implementation of domain.PriceProvider
type PriceProvider struct {
	mock.Mock
}

func (m *PriceProvider) Price(ctx context.Context, ticker string, mode domain.IndexMode) (decimal.Decimal, error) {
	args := m.Called(ctx, ticker, mode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// FixedRate is a domain.RateProvider that always returns Rate
type FixedRate struct {
	Rate decimal.Decimal
	Err  error
}

func (f FixedRate) ReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	return f.Rate, f.Err
}

// FixedClock is a domain.Clock frozen at At
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}
