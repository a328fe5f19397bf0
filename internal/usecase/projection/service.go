package projection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// ProjectionService projects stored holdings forward
type ProjectionService struct {
	HoldingRepo domain.HoldingRepository
	Rates       domain.RateProvider
}

// NewProjectionService creates a new ProjectionService instance
func NewProjectionService(holdingRepo domain.HoldingRepository, rates domain.RateProvider) *ProjectionService {
	return &ProjectionService{
		HoldingRepo: holdingRepo,
		Rates:       rates,
	}
}

// ProjectHolding projects a holding from its current gross value with monthly contributions for years.
// The holding's effective rate is used, so CDI holdings follow the current reference rate;
// price-quoted holdings carry no rate and project flat.
func (s *ProjectionService) ProjectHolding(ctx context.Context, id uuid.UUID, monthly decimal.Decimal, years int) (*Projection, error) {
	holding, err := s.HoldingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	referenceRate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}

	rate := decimal.Zero
	if !holding.IsPriceQuoted() {
		rate = holding.EffectiveRate(referenceRate)
	}

	return FixedIncome(holding.GrossValue, monthly, years*12, rate, holding.Exempt)
}

// CDIAtReference runs CDI with the current reference rate
func (s *ProjectionService) CDIAtReference(ctx context.Context, initial, monthly decimal.Decimal, years int, percentOfCDI decimal.Decimal) (*Projection, error) {
	referenceRate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}
	return CDI(initial, monthly, years, percentOfCDI, referenceRate)
}
