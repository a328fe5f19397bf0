package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/mocks"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func TestReferenceRate(t *testing.T) {
	fallback := decimal.RequireFromString("11.25")

	tests := []struct {
		name     string
		latest   *domain.ReferenceRate
		err      error
		expected decimal.Decimal
		wantErr  bool
	}{
		{"stored observation", &domain.ReferenceRate{Rate: decimal.RequireFromString("14.15")}, nil, decimal.RequireFromString("14.15"), false},
		{"no observation uses fallback", nil, domain.ErrNotFound, fallback, false},
		{"storage failure", nil, errors.New("connection refused"), decimal.Zero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(mocks.RateRepository)
			repo.On("GetLatest", ctx, domain.ReferenceRateCDI).Return(tt.latest, tt.err)

			provider := NewProvider(repo, mocks.FixedClock{At: now}, fallback, zerolog.Nop())

			rate, err := provider.ReferenceRate(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, rate.Equal(tt.expected), "got %s", rate)
		})
	}
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.RateRepository)
	provider := NewProvider(repo, mocks.FixedClock{At: now}, decimal.Zero, zerolog.Nop())

	repo.On("Add", ctx, mock.MatchedBy(func(r *domain.ReferenceRate) bool {
		return r.Name == domain.ReferenceRateCDI && r.EffectiveDate.Equal(now)
	})).Return(nil)

	observation, err := provider.Record(ctx, decimal.RequireFromString("14.9"))
	require.NoError(t, err)
	assert.True(t, observation.Rate.Equal(decimal.RequireFromString("14.9")))

	_, err = provider.Record(ctx, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	repo.AssertNumberOfCalls(t, "Add", 1)
}
