package balance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/mocks"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func fixedHolding(rate int64, exempt bool) *domain.Holding {
	return &domain.Holding{
		ID:        uuid.New(),
		Owner:     "alice",
		Name:      "CDB Prefixado",
		IndexMode: domain.IndexModeFixed,
		Rate:      decimal.NewFromInt(rate),
		Exempt:    exempt,
	}
}

func tx(holdingID uuid.UUID, kind domain.TransactionKind, amount int64, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.New(),
		HoldingID: holdingID,
		Timestamp: now.AddDate(0, 0, -daysAgo),
		Kind:      kind,
		Amount:    decimal.NewFromInt(amount),
	}
}

func TestRecompute_OneYearOldContribution(t *testing.T) {
	holding := fixedHolding(12, false)
	txs := []domain.Transaction{tx(holding.ID, domain.TransactionKindContribution, 1000, 353)}

	result, err := Recompute(holding, txs, decimal.Zero, now)

	require.NoError(t, err)
	assert.True(t, result.Gross.Equal(decimal.NewFromInt(1120)), "gross %s", result.Gross)
	// 353 days held: 20% income tax on 120 profit
	assert.True(t, result.Tax.Equal(decimal.NewFromInt(24)), "tax %s", result.Tax)
	assert.True(t, result.Net.Equal(decimal.NewFromInt(1096)), "net %s", result.Net)
}

func TestRecompute_ExemptHoldingPaysNoIncomeTax(t *testing.T) {
	holding := fixedHolding(12, true)
	txs := []domain.Transaction{tx(holding.ID, domain.TransactionKindContribution, 1000, 353)}

	result, err := Recompute(holding, txs, decimal.Zero, now)

	require.NoError(t, err)
	assert.True(t, result.Tax.IsZero())
	assert.True(t, result.Net.Equal(result.Gross))
}

func TestRecompute_CDIUsesReferenceRate(t *testing.T) {
	holding := &domain.Holding{
		ID:        uuid.New(),
		Owner:     "alice",
		Name:      "CDB 100% CDI",
		IndexMode: domain.IndexModeCDI,
		Rate:      decimal.NewFromInt(100),
	}
	txs := []domain.Transaction{tx(holding.ID, domain.TransactionKindContribution, 1000, 353)}

	result, err := Recompute(holding, txs, decimal.NewFromInt(12), now)

	require.NoError(t, err)
	assert.True(t, result.Gross.Equal(decimal.NewFromInt(1120)), "gross %s", result.Gross)
}

func TestRecompute_IsIdempotent(t *testing.T) {
	holding := fixedHolding(11, false)
	txs := []domain.Transaction{
		tx(holding.ID, domain.TransactionKindContribution, 1000, 500),
		tx(holding.ID, domain.TransactionKindContribution, 300, 200),
		tx(holding.ID, domain.TransactionKindWithdrawal, 450, 100),
		tx(holding.ID, domain.TransactionKindContribution, 200, 5),
	}

	first, err := Recompute(holding, txs, decimal.Zero, now)
	require.NoError(t, err)
	second, err := Recompute(holding, txs, decimal.Zero, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecompute_FullyWithdrawnHoldingIsZero(t *testing.T) {
	holding := fixedHolding(0, false)
	txs := []domain.Transaction{
		tx(holding.ID, domain.TransactionKindContribution, 1000, 50),
		tx(holding.ID, domain.TransactionKindWithdrawal, 1000, 10),
	}

	result, err := Recompute(holding, txs, decimal.Zero, now)

	require.NoError(t, err)
	assert.True(t, result.Gross.IsZero())
	assert.True(t, result.Tax.IsZero())
	assert.True(t, result.Net.IsZero())
}

func TestRecompute_RejectsPriceQuotedHolding(t *testing.T) {
	holding := &domain.Holding{ID: uuid.New(), Name: "PETR4", IndexMode: domain.IndexModeEquity, Ticker: "PETR4"}

	_, err := Recompute(holding, nil, decimal.Zero, now)

	assert.True(t, errors.Is(err, domain.ErrNotRateIndexed))
}

func TestRecomputeHolding_PersistsResult(t *testing.T) {
	ctx := context.Background()
	holdingRepo := new(mocks.HoldingRepository)
	txRepo := new(mocks.TransactionRepository)

	holding := fixedHolding(12, false)
	txs := []domain.Transaction{tx(holding.ID, domain.TransactionKindContribution, 1000, 353)}

	holdingRepo.On("GetByID", ctx, holding.ID).Return(holding, nil)
	txRepo.On("ListByHolding", ctx, holding.ID).Return(txs, nil)
	holdingRepo.On("UpdateBalance", ctx, holding.ID,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(1120)) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(24)) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(1096)) }),
	).Return(nil)

	service := NewBalanceService(holdingRepo, txRepo, mocks.FixedRate{Rate: decimal.NewFromInt(11)}, mocks.FixedClock{At: now}, zerolog.Nop())

	result, err := service.RecomputeHolding(ctx, holding.ID)

	require.NoError(t, err)
	assert.True(t, result.Gross.Equal(decimal.NewFromInt(1120)))
	assert.True(t, holding.NetValue.Equal(decimal.NewFromInt(1096)))
	holdingRepo.AssertExpectations(t)
	txRepo.AssertExpectations(t)
}

func TestRecomputeHolding_NotFound(t *testing.T) {
	ctx := context.Background()
	holdingRepo := new(mocks.HoldingRepository)
	txRepo := new(mocks.TransactionRepository)

	id := uuid.New()
	holdingRepo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound)

	service := NewBalanceService(holdingRepo, txRepo, mocks.FixedRate{}, mocks.FixedClock{At: now}, zerolog.Nop())

	result, err := service.RecomputeHolding(ctx, id)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	txRepo.AssertNotCalled(t, "ListByHolding")
	holdingRepo.AssertNotCalled(t, "UpdateBalance")
}

func TestRecomputeHolding_RateFailureDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	holdingRepo := new(mocks.HoldingRepository)
	txRepo := new(mocks.TransactionRepository)

	holding := fixedHolding(12, false)
	holdingRepo.On("GetByID", ctx, holding.ID).Return(holding, nil)

	service := NewBalanceService(holdingRepo, txRepo, mocks.FixedRate{Err: errors.New("rates unavailable")}, mocks.FixedClock{At: now}, zerolog.Nop())

	_, err := service.RecomputeHolding(ctx, holding.ID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rates unavailable")
	holdingRepo.AssertNotCalled(t, "UpdateBalance")
}
