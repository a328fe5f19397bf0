package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// Fixed UUID of the seeded CDI observation, so re-seeding is recognizable in the table
var SYS_CDI_SEED = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")

// DefaultCDI is the CDI rate (% a.a.) seeded on an empty database
var DefaultCDI = decimal.RequireFromString("11.25")

// SystemRate defines a reference rate to be seeded
type SystemRate struct {
	ID   uuid.UUID
	Name string
	Rate decimal.Decimal
}

// RateSeeder handles seeding of the reference rates the engine needs
type RateSeeder struct {
	repo  domain.RateRepository
	clock domain.Clock
	rates []SystemRate
}

// NewRateSeeder creates a new RateSeeder instance.
// cdi overrides DefaultCDI when positive.
func NewRateSeeder(repo domain.RateRepository, clock domain.Clock, cdi decimal.Decimal) *RateSeeder {
	if !cdi.IsPositive() {
		cdi = DefaultCDI
	}
	return &RateSeeder{
		repo:  repo,
		clock: clock,
		rates: []SystemRate{
			{ID: SYS_CDI_SEED, Name: domain.ReferenceRateCDI, Rate: cdi},
		},
	}
}

// Seed ensures every reference rate has at least one observation
// If a rate has none, the default is recorded as of today
func (s *RateSeeder) Seed(ctx context.Context) error {
	for _, sysRate := range s.rates {
		_, err := s.repo.GetLatest(ctx, sysRate.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := s.clock.Now()
		rate := &domain.ReferenceRate{
			ID:            sysRate.ID,
			Name:          sysRate.Name,
			Rate:          sysRate.Rate,
			EffectiveDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		}

		if err := s.repo.Add(ctx, rate); err != nil {
			return err
		}
	}

	return nil
}
