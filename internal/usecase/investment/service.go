package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/balance"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/lots"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/timevalue"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/withdrawal"
)

// CreateHoldingInput describes a new holding and its optional opening contribution
type CreateHoldingInput struct {
	Owner     string
	Name      string
	Category  string
	IndexMode domain.IndexMode
	Rate      decimal.Decimal
	Ticker    string
	Exempt    *bool // nil derives the flag from the name

	InitialAmount   decimal.Decimal
	InitialQuantity decimal.Decimal
	StartedAt       time.Time // zero means now
}

// RecordTransactionInput describes a contribution or withdrawal to record
type RecordTransactionInput struct {
	HoldingID uuid.UUID
	Kind      domain.TransactionKind
	Amount    decimal.Decimal
	Quantity  decimal.Decimal
	Timestamp time.Time // zero means now
}

// RefreshReport counts the outcome of a batch price refresh
type RefreshReport struct {
	Updated int
	Skipped int
	Failed  int
}

// InvestmentService handles holding and transaction operations
type InvestmentService struct {
	HoldingRepo     domain.HoldingRepository
	TransactionRepo domain.TransactionRepository
	Prices          domain.PriceProvider
	Balance         *balance.BalanceService
	logger          zerolog.Logger
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(
	holdingRepo domain.HoldingRepository,
	transactionRepo domain.TransactionRepository,
	prices domain.PriceProvider,
	balanceService *balance.BalanceService,
	logger zerolog.Logger,
) *InvestmentService {
	return &InvestmentService{
		HoldingRepo:     holdingRepo,
		TransactionRepo: transactionRepo,
		Prices:          prices,
		Balance:         balanceService,
		logger:          logger.With().Str("service", "investment").Logger(),
	}
}

// CreateHolding stores a new holding and records its opening contribution, if any
func (s *InvestmentService) CreateHolding(ctx context.Context, input CreateHoldingInput) (*domain.Holding, error) {
	exempt := domain.DeriveExempt(input.Name)
	if input.Exempt != nil {
		exempt = *input.Exempt
	}

	holding := &domain.Holding{
		ID:           uuid.New(),
		Owner:        input.Owner,
		Name:         input.Name,
		Category:     input.Category,
		IndexMode:    input.IndexMode,
		Rate:         input.Rate,
		Ticker:       input.Ticker,
		Exempt:       exempt,
		Status:       domain.HoldingStatusActive,
		GrossValue:   decimal.Zero,
		EstimatedTax: decimal.Zero,
		NetValue:     decimal.Zero,
	}

	if err := holding.Validate(); err != nil {
		return nil, err
	}
	if input.InitialAmount.IsNegative() {
		return nil, fmt.Errorf("%w: initial amount cannot be negative", domain.ErrInvalidInput)
	}

	opening := RecordTransactionInput{
		HoldingID: holding.ID,
		Kind:      domain.TransactionKindContribution,
		Amount:    input.InitialAmount,
		Quantity:  input.InitialQuantity,
		Timestamp: input.StartedAt,
	}
	if input.InitialAmount.IsPositive() {
		if err := s.newTransaction(opening).Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.HoldingRepo.Create(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}

	if input.InitialAmount.IsPositive() {
		if _, err := s.record(ctx, holding, opening); err != nil {
			// A holding without its opening contribution is not kept
			if delErr := s.HoldingRepo.Delete(ctx, holding.ID); delErr != nil {
				s.logger.Error().Err(delErr).Str("holding_id", holding.ID.String()).Msg("failed to remove holding after opening contribution failed")
			}
			return nil, fmt.Errorf("failed to record initial contribution: %w", err)
		}
	}

	s.logger.Info().
		Str("holding_id", holding.ID.String()).
		Str("owner", holding.Owner).
		Str("index_mode", string(holding.IndexMode)).
		Bool("exempt", holding.Exempt).
		Msg("holding created")

	return holding, nil
}

// DeleteHolding removes a holding together with its transactions
func (s *InvestmentService) DeleteHolding(ctx context.Context, id uuid.UUID) error {
	if _, err := s.HoldingRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.HoldingRepo.Delete(ctx, id)
}

// ListHoldings returns the owner's holdings
func (s *InvestmentService) ListHoldings(ctx context.Context, owner string) ([]*domain.Holding, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner cannot be empty", domain.ErrInvalidInput)
	}
	return s.HoldingRepo.List(ctx, owner)
}

// RecordTransaction records a contribution or withdrawal and updates the holding's balance
// Logic:
//   - Price-quoted holdings: gross and net move by the transaction amount until the next price refresh
//   - Rate-indexed holdings: a withdrawal must find lot value at its own date; its realized
//     profit and taxes are filled in from a simulation, then the balance is recomputed
func (s *InvestmentService) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	holding, err := s.HoldingRepo.GetByID(ctx, input.HoldingID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, holding, input)
}

// newTransaction builds the transaction described by input; a zero timestamp becomes now
func (s *InvestmentService) newTransaction(input RecordTransactionInput) *domain.Transaction {
	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = s.Balance.Clock.Now()
	}

	return &domain.Transaction{
		ID:        uuid.New(),
		HoldingID: input.HoldingID,
		Timestamp: timestamp,
		Kind:      input.Kind,
		Amount:    input.Amount,
		Quantity:  input.Quantity,
	}
}

func (s *InvestmentService) record(ctx context.Context, holding *domain.Holding, input RecordTransactionInput) (*domain.Transaction, error) {
	input.HoldingID = holding.ID
	tx := s.newTransaction(input)
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if holding.IsPriceQuoted() {
		return tx, s.recordQuoted(ctx, holding, tx)
	}

	referenceRate, err := s.Balance.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}

	if !tx.IsContribution() {
		if err := s.realize(ctx, holding, tx, referenceRate); err != nil {
			return nil, err
		}
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if _, err := s.Balance.Apply(ctx, holding, referenceRate); err != nil {
		return nil, fmt.Errorf("failed to recompute holding: %w", err)
	}

	return tx, nil
}

// realize checks that a withdrawal finds lot value at its own date and fills its realized fields
// Logic:
//  1. Replay the history with and without tx; the extra unmatched amount is what tx could not draw
//  2. More than balance.Tolerance unmatched rejects tx with ErrInsufficientFunds
//  3. Profit and taxes come from a simulation over the transactions up to tx's date, as of that date
func (s *InvestmentService) realize(ctx context.Context, holding *domain.Holding, tx *domain.Transaction, referenceRate decimal.Decimal) error {
	txs, err := s.TransactionRepo.ListByHolding(ctx, holding.ID)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	now := s.Balance.Clock.Now()
	rate := holding.EffectiveRate(referenceRate)

	current, err := lots.Build(txs, rate, now, timevalue.Default)
	if err != nil {
		return err
	}
	withTx := append(txs[:len(txs):len(txs)], *tx)
	next, err := lots.Build(withTx, rate, now, timevalue.Default)
	if err != nil {
		return err
	}

	shortfall := next.Unmatched.Sub(current.Unmatched)
	if shortfall.GreaterThan(balance.Tolerance) {
		return fmt.Errorf("%w: withdrawal of %s on %s leaves %s without lot value",
			domain.ErrInsufficientFunds, tx.Amount, tx.Timestamp.Format("2006-01-02"), shortfall.Round(2))
	}

	at := tx.Timestamp
	if at.After(now) {
		at = now
	}
	simulation, err := withdrawal.Simulate(holding, upTo(txs, at), tx.Amount, referenceRate, at)
	if err != nil {
		return err
	}

	tx.RealizedProfit = simulation.RealizedProfit
	tx.ShortTermTax = simulation.ShortTermTax
	tx.IncomeTax = simulation.IncomeTax
	tx.NetAmount = simulation.Net
	return nil
}

func (s *InvestmentService) recordQuoted(ctx context.Context, holding *domain.Holding, tx *domain.Transaction) error {
	if !tx.IsContribution() {
		tx.NetAmount = tx.Amount
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	delta := tx.Amount
	if !tx.IsContribution() {
		delta = delta.Neg()
	}
	return s.shiftQuoted(ctx, holding, delta)
}

// shiftQuoted moves a price-quoted holding's gross and net by delta, floored at zero
func (s *InvestmentService) shiftQuoted(ctx context.Context, holding *domain.Holding, delta decimal.Decimal) error {
	gross := decimal.Max(holding.GrossValue.Add(delta), decimal.Zero)
	net := decimal.Max(holding.NetValue.Add(delta), decimal.Zero)

	if err := s.HoldingRepo.UpdateBalance(ctx, holding.ID, gross, holding.EstimatedTax, net); err != nil {
		return err
	}
	holding.GrossValue = gross
	holding.NetValue = net
	return nil
}

// DeleteTransaction removes a transaction and brings its holding's balance back in line
func (s *InvestmentService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	holding, err := s.HoldingRepo.GetByID(ctx, tx.HoldingID)
	if err != nil {
		return err
	}

	if err := s.TransactionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if holding.IsPriceQuoted() {
		delta := tx.Amount.Neg()
		if !tx.IsContribution() {
			delta = tx.Amount
		}
		return s.shiftQuoted(ctx, holding, delta)
	}

	_, err = s.Balance.RecomputeHolding(ctx, holding.ID)
	return err
}

// upTo returns the transactions dated at or before at
func upTo(txs []domain.Transaction, at time.Time) []domain.Transaction {
	kept := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Timestamp.After(at) {
			kept = append(kept, tx)
		}
	}
	return kept
}

// Quantity returns the units held after txs: contributed minus withdrawn quantities, floored at zero
func Quantity(txs []domain.Transaction) decimal.Decimal {
	qty := decimal.Zero
	for _, tx := range txs {
		if tx.IsContribution() {
			qty = qty.Add(tx.Quantity)
		} else {
			qty = qty.Sub(tx.Quantity)
		}
	}
	return decimal.Max(qty, decimal.Zero)
}

// RefreshPrices revalues every holding
// Logic:
//   - Price-quoted holdings with a ticker: gross = net = quantity * price when a positive price is found
//   - Rate-indexed holdings: full balance recomputation
//
// A failure on one holding is logged and counted; the remaining holdings are still processed.
func (s *InvestmentService) RefreshPrices(ctx context.Context) (*RefreshReport, error) {
	holdings, err := s.HoldingRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	referenceRate, err := s.Balance.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}

	report := &RefreshReport{}
	for _, holding := range holdings {
		log := s.logger.With().Str("holding_id", holding.ID.String()).Logger()

		if !holding.IsPriceQuoted() {
			if _, err := s.Balance.Apply(ctx, holding, referenceRate); err != nil {
				log.Warn().Err(err).Msg("failed to recompute holding")
				report.Failed++
				continue
			}
			report.Updated++
			continue
		}

		if holding.Ticker == "" {
			report.Skipped++
			continue
		}

		updated, err := s.refreshQuoted(ctx, holding)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("ticker", holding.Ticker).Msg("failed to refresh price")
			report.Failed++
		case !updated:
			log.Debug().Str("ticker", holding.Ticker).Msg("no price available")
			report.Skipped++
		default:
			report.Updated++
		}
	}

	s.logger.Info().
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("prices refreshed")

	return report, nil
}

func (s *InvestmentService) refreshQuoted(ctx context.Context, holding *domain.Holding) (bool, error) {
	price, err := s.Prices.Price(ctx, holding.Ticker, holding.IndexMode)
	if err != nil {
		return false, err
	}
	if !price.IsPositive() {
		return false, nil
	}

	txs, err := s.TransactionRepo.ListByHolding(ctx, holding.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list transactions: %w", err)
	}

	gross := Quantity(txs).Mul(price).Round(2)
	if err := s.HoldingRepo.UpdateBalance(ctx, holding.ID, gross, decimal.Zero, gross); err != nil {
		return false, err
	}

	holding.GrossValue = gross
	holding.EstimatedTax = decimal.Zero
	holding.NetValue = gross
	return true, nil
}
