package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// Liability statuses
const (
	LiabilityStatusOpen = "OPEN"
	LiabilityStatusPaid = "PAID"
)

// NetWorthResult represents the calculated net worth of an owner
type NetWorthResult struct {
	Gross        decimal.Decimal
	EstimatedTax decimal.Decimal
	Net          decimal.Decimal
	Liabilities  decimal.Decimal
	NetWorth     decimal.Decimal
	ByCategory   map[string]decimal.Decimal // gross value per holding category
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	HoldingRepo   domain.HoldingRepository
	LiabilityRepo domain.LiabilityRepository
	logger        zerolog.Logger
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	holdingRepo domain.HoldingRepository,
	liabilityRepo domain.LiabilityRepository,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		HoldingRepo:   holdingRepo,
		LiabilityRepo: liabilityRepo,
		logger:        logger.With().Str("service", "dashboard").Logger(),
	}
}

// GetNetWorth calculates the owner's net worth from stored balances
// Logic:
//   - Gross / EstimatedTax / Net: sums of the holdings' derived fields
//   - Liabilities: sum of outstanding balances of open liabilities
//   - NetWorth: Net - Liabilities
func (s *DashboardService) GetNetWorth(ctx context.Context, owner string) (*NetWorthResult, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner cannot be empty", domain.ErrInvalidInput)
	}

	holdings, err := s.HoldingRepo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	result := &NetWorthResult{
		Gross:        decimal.Zero,
		EstimatedTax: decimal.Zero,
		Net:          decimal.Zero,
		Liabilities:  decimal.Zero,
		ByCategory:   make(map[string]decimal.Decimal),
	}

	for _, holding := range holdings {
		result.Gross = result.Gross.Add(holding.GrossValue)
		result.EstimatedTax = result.EstimatedTax.Add(holding.EstimatedTax)
		result.Net = result.Net.Add(holding.NetValue)

		category := holding.Category
		if category == "" {
			category = string(holding.IndexMode)
		}
		result.ByCategory[category] = result.ByCategory[category].Add(holding.GrossValue)
	}

	liabilities, err := s.LiabilityRepo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}

	for _, liability := range liabilities {
		if liability.Status == LiabilityStatusPaid {
			continue
		}
		result.Liabilities = result.Liabilities.Add(liability.Outstanding)
	}

	result.NetWorth = result.Net.Sub(result.Liabilities)

	return result, nil
}

// AddLiability stores a new liability for its owner
func (s *DashboardService) AddLiability(ctx context.Context, liability *domain.Liability) error {
	if liability.ID == uuid.Nil {
		liability.ID = uuid.New()
	}
	if liability.Status == "" {
		liability.Status = LiabilityStatusOpen
	}
	if liability.Start.IsZero() {
		liability.Start = time.Now()
	}
	if liability.Outstanding.IsZero() {
		liability.Outstanding = liability.Original
	}

	if err := liability.Validate(); err != nil {
		return err
	}

	if err := s.LiabilityRepo.Create(ctx, liability); err != nil {
		return fmt.Errorf("failed to create liability: %w", err)
	}

	s.logger.Info().
		Str("liability_id", liability.ID.String()).
		Str("owner", liability.Owner).
		Str("outstanding", liability.Outstanding.String()).
		Msg("liability added")

	return nil
}

// RemoveLiability deletes a liability
func (s *DashboardService) RemoveLiability(ctx context.Context, id uuid.UUID) error {
	return s.LiabilityRepo.Delete(ctx, id)
}
