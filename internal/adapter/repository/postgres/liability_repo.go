package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// liabilityRepository implements domain.LiabilityRepository
type liabilityRepository struct {
	db *DB
}

// NewLiabilityRepository creates a new liability repository
func NewLiabilityRepository(db *DB) domain.LiabilityRepository {
	return &liabilityRepository{db: db}
}

// Create creates a new liability
func (r *liabilityRepository) Create(ctx context.Context, liability *domain.Liability) error {
	query := `
		INSERT INTO liabilities (id, owner, name, kind, original, outstanding, annual_rate, term_months, installment, started_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		liability.ID,
		liability.Owner,
		liability.Name,
		liability.Kind,
		liability.Original.String(),
		liability.Outstanding.String(),
		liability.AnnualRate.String(),
		liability.TermMonths,
		liability.Installment.String(),
		liability.Start,
		liability.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create liability: %w", err)
	}

	return nil
}

// Delete removes a liability
func (r *liabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM liabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete liability: %w", err)
	}
	return expectAffected(result, "liability", id)
}

// List retrieves the owner's liabilities
func (r *liabilityRepository) List(ctx context.Context, owner string) ([]*domain.Liability, error) {
	query := `
		SELECT id, owner, name, kind, original, outstanding, annual_rate, term_months, installment, started_at, status
		FROM liabilities
		WHERE owner = $1
		ORDER BY started_at
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []*domain.Liability
	for rows.Next() {
		var l domain.Liability
		var originalStr, outstandingStr, rateStr, installmentStr string

		err := rows.Scan(
			&l.ID,
			&l.Owner,
			&l.Name,
			&l.Kind,
			&originalStr,
			&outstandingStr,
			&rateStr,
			&l.TermMonths,
			&installmentStr,
			&l.Start,
			&l.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}

		if l.Original, err = parseDecimal(originalStr, "original"); err != nil {
			return nil, err
		}
		if l.Outstanding, err = parseDecimal(outstandingStr, "outstanding"); err != nil {
			return nil, err
		}
		if l.AnnualRate, err = parseDecimal(rateStr, "annual_rate"); err != nil {
			return nil, err
		}
		if l.Installment, err = parseDecimal(installmentStr, "installment"); err != nil {
			return nil, err
		}

		liabilities = append(liabilities, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liabilities: %w", err)
	}

	return liabilities, nil
}
