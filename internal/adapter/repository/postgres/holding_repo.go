package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

const holdingColumns = `id, owner, name, category, index_mode, rate, ticker, exempt, status, gross_value, estimated_tax, net_value`

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE id = $1`

	holding, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get holding by ID: %w", err)
	}

	return holding, nil
}

// Create creates a new holding
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (` + holdingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		holding.ID,
		holding.Owner,
		holding.Name,
		holding.Category,
		string(holding.IndexMode),
		holding.Rate.String(),
		holding.Ticker,
		holding.Exempt,
		holding.Status,
		holding.GrossValue.String(),
		holding.EstimatedTax.String(),
		holding.NetValue.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}

	return nil
}

// Delete removes a holding; its transactions go with it (ON DELETE CASCADE)
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return expectAffected(result, "holding", id)
}

// List retrieves holdings, optionally filtered by owner
func (r *holdingRepository) List(ctx context.Context, owner string) ([]*domain.Holding, error) {
	var query string
	var args []interface{}

	if owner != "" {
		query = `SELECT ` + holdingColumns + ` FROM holdings WHERE owner = $1 ORDER BY created_at, name`
		args = []interface{}{owner}
	} else {
		query = `SELECT ` + holdingColumns + ` FROM holdings ORDER BY created_at, name`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// UpdateBalance persists the derived values in a single statement
func (r *holdingRepository) UpdateBalance(ctx context.Context, id uuid.UUID, gross, tax, net decimal.Decimal) error {
	query := `
		UPDATE holdings
		SET gross_value = $2, estimated_tax = $3, net_value = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, gross.String(), tax.String(), net.String())
	if err != nil {
		return fmt.Errorf("failed to update holding balance: %w", err)
	}
	return expectAffected(result, "holding", id)
}

func scanHolding(row scanner) (*domain.Holding, error) {
	var holding domain.Holding
	var indexMode, rateStr, grossStr, taxStr, netStr string

	err := row.Scan(
		&holding.ID,
		&holding.Owner,
		&holding.Name,
		&holding.Category,
		&indexMode,
		&rateStr,
		&holding.Ticker,
		&holding.Exempt,
		&holding.Status,
		&grossStr,
		&taxStr,
		&netStr,
	)
	if err != nil {
		return nil, err
	}
	holding.IndexMode = domain.IndexMode(indexMode)

	if holding.Rate, err = parseDecimal(rateStr, "rate"); err != nil {
		return nil, err
	}
	if holding.GrossValue, err = parseDecimal(grossStr, "gross_value"); err != nil {
		return nil, err
	}
	if holding.EstimatedTax, err = parseDecimal(taxStr, "estimated_tax"); err != nil {
		return nil, err
	}
	if holding.NetValue, err = parseDecimal(netStr, "net_value"); err != nil {
		return nil, err
	}

	return &holding, nil
}

// expectAffected turns a no-op write into domain.ErrNotFound
func expectAffected(result sql.Result, entity string, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
