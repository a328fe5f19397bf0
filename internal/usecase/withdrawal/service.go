package withdrawal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// SimulatorService runs withdrawal simulations against stored holdings
type SimulatorService struct {
	HoldingRepo     domain.HoldingRepository
	TransactionRepo domain.TransactionRepository
	Rates           domain.RateProvider
	Clock           domain.Clock
	logger          zerolog.Logger
}

// NewSimulatorService creates a new SimulatorService instance
func NewSimulatorService(
	holdingRepo domain.HoldingRepository,
	transactionRepo domain.TransactionRepository,
	rates domain.RateProvider,
	clock domain.Clock,
	logger zerolog.Logger,
) *SimulatorService {
	return &SimulatorService{
		HoldingRepo:     holdingRepo,
		TransactionRepo: transactionRepo,
		Rates:           rates,
		Clock:           clock,
		logger:          logger.With().Str("service", "withdrawal").Logger(),
	}
}

// Simulate loads the holding and its history and simulates withdrawing amount now.
// Nothing is written.
func (s *SimulatorService) Simulate(ctx context.Context, holdingID uuid.UUID, amount decimal.Decimal) (*domain.WithdrawalSimulation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrInvalidInput)
	}

	holding, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	txs, err := s.TransactionRepo.ListByHolding(ctx, holding.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	referenceRate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}

	simulation, err := Simulate(holding, txs, amount, referenceRate, s.Clock.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("holding_id", holding.ID.String()).
		Str("amount", amount.String()).
		Str("total_tax", simulation.TotalTax.String()).
		Msg("withdrawal simulated")

	return simulation, nil
}
