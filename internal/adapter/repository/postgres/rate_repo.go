package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// rateRepository implements domain.RateRepository
type rateRepository struct {
	db *DB
}

// NewRateRepository creates a new reference rate repository
func NewRateRepository(db *DB) domain.RateRepository {
	return &rateRepository{db: db}
}

// Add records a new observation of a reference rate
func (r *rateRepository) Add(ctx context.Context, rate *domain.ReferenceRate) error {
	query := `
		INSERT INTO reference_rates (id, name, rate, effective_date)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		rate.ID,
		rate.Name,
		rate.Rate.String(),
		rate.EffectiveDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reference rate: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent observation of the named rate
func (r *rateRepository) GetLatest(ctx context.Context, name string) (*domain.ReferenceRate, error) {
	query := `
		SELECT id, name, rate, effective_date
		FROM reference_rates
		WHERE name = $1
		ORDER BY effective_date DESC, recorded_at DESC
		LIMIT 1
	`

	var rate domain.ReferenceRate
	var rateStr string

	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&rate.ID,
		&rate.Name,
		&rateStr,
		&rate.EffectiveDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s rate recorded: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest reference rate: %w", err)
	}

	// Parse rate (DECIMAL)
	if rate.Rate, err = parseDecimal(rateStr, "rate"); err != nil {
		return nil, err
	}

	return &rate, nil
}
