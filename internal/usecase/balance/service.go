package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// BalanceService recomputes and persists the derived balance of holdings
type BalanceService struct {
	HoldingRepo     domain.HoldingRepository
	TransactionRepo domain.TransactionRepository
	Rates           domain.RateProvider
	Clock           domain.Clock
	logger          zerolog.Logger
}

// NewBalanceService creates a new BalanceService instance
func NewBalanceService(
	holdingRepo domain.HoldingRepository,
	transactionRepo domain.TransactionRepository,
	rates domain.RateProvider,
	clock domain.Clock,
	logger zerolog.Logger,
) *BalanceService {
	return &BalanceService{
		HoldingRepo:     holdingRepo,
		TransactionRepo: transactionRepo,
		Rates:           rates,
		Clock:           clock,
		logger:          logger.With().Str("service", "balance").Logger(),
	}
}

// RecomputeHolding rebuilds a holding's balance from its transactions and persists it
// Returns domain.ErrNotRateIndexed for price-quoted holdings, whose balance follows market prices.
func (s *BalanceService) RecomputeHolding(ctx context.Context, holdingID uuid.UUID) (*Result, error) {
	holding, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	referenceRate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}

	return s.Apply(ctx, holding, referenceRate)
}

// Apply recomputes an already loaded holding with a given reference rate and persists the result.
// Batch callers use it to read the reference rate once for many holdings.
func (s *BalanceService) Apply(ctx context.Context, holding *domain.Holding, referenceRate decimal.Decimal) (*Result, error) {
	txs, err := s.TransactionRepo.ListByHolding(ctx, holding.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	result, err := Recompute(holding, txs, referenceRate, s.Clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.HoldingRepo.UpdateBalance(ctx, holding.ID, result.Gross, result.Tax, result.Net); err != nil {
		return nil, err
	}

	holding.GrossValue = result.Gross
	holding.EstimatedTax = result.Tax
	holding.NetValue = result.Net

	s.logger.Debug().
		Str("holding_id", holding.ID.String()).
		Int("transactions", len(txs)).
		Str("gross", result.Gross.String()).
		Str("tax", result.Tax.String()).
		Msg("holding balance recomputed")

	return &result, nil
}
