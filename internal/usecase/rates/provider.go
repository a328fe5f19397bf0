package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// Provider reads the CDI reference rate from storage, falling back to a configured value
// when no observation has been recorded yet. It implements domain.RateProvider.
type Provider struct {
	Repo     domain.RateRepository
	Clock    domain.Clock
	Fallback decimal.Decimal
	logger   zerolog.Logger
}

// NewProvider creates a new Provider instance
func NewProvider(repo domain.RateRepository, clock domain.Clock, fallback decimal.Decimal, logger zerolog.Logger) *Provider {
	return &Provider{
		Repo:     repo,
		Clock:    clock,
		Fallback: fallback,
		logger:   logger.With().Str("service", "rates").Logger(),
	}
}

// ReferenceRate returns the latest CDI rate (% a.a.)
func (p *Provider) ReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	latest, err := p.Repo.GetLatest(ctx, domain.ReferenceRateCDI)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.logger.Debug().Str("fallback", p.Fallback.String()).Msg("no CDI observation, using fallback")
			return p.Fallback, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read CDI rate: %w", err)
	}
	return latest.Rate, nil
}

// Record stores a new CDI observation effective now
func (p *Provider) Record(ctx context.Context, rate decimal.Decimal) (*domain.ReferenceRate, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: reference rate must be positive", domain.ErrInvalidInput)
	}

	observation := &domain.ReferenceRate{
		ID:            uuid.New(),
		Name:          domain.ReferenceRateCDI,
		Rate:          rate,
		EffectiveDate: p.Clock.Now(),
	}
	if err := p.Repo.Add(ctx, observation); err != nil {
		return nil, fmt.Errorf("failed to record CDI rate: %w", err)
	}

	p.logger.Info().Str("rate", rate.String()).Msg("CDI rate recorded")
	return observation, nil
}
