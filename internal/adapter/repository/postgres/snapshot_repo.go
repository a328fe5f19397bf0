package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// ReplaceForOwner deletes the owner's snapshots and inserts the new series in one database transaction
func (r *snapshotRepository) ReplaceForOwner(ctx context.Context, owner string, snapshots []domain.Snapshot) error {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM portfolio_snapshots WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO portfolio_snapshots (owner, taken_at, gross, invested, inflow, outflow)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snapshot := range snapshots {
		_, err := stmt.ExecContext(ctx,
			owner,
			snapshot.Timestamp,
			snapshot.Gross.String(),
			snapshot.Invested.String(),
			snapshot.Inflow.String(),
			snapshot.Outflow.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List retrieves the owner's snapshots ordered by timestamp ascending
func (r *snapshotRepository) List(ctx context.Context, owner string) ([]domain.Snapshot, error) {
	query := `
		SELECT owner, taken_at, gross, invested, inflow, outflow
		FROM portfolio_snapshots
		WHERE owner = $1
		ORDER BY taken_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]domain.Snapshot, 0)
	for rows.Next() {
		var snapshot domain.Snapshot
		var grossStr, investedStr, inflowStr, outflowStr string

		if err := rows.Scan(&snapshot.Owner, &snapshot.Timestamp, &grossStr, &investedStr, &inflowStr, &outflowStr); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		if snapshot.Gross, err = parseDecimal(grossStr, "gross"); err != nil {
			return nil, err
		}
		if snapshot.Invested, err = parseDecimal(investedStr, "invested"); err != nil {
			return nil, err
		}
		if snapshot.Inflow, err = parseDecimal(inflowStr, "inflow"); err != nil {
			return nil, err
		}
		if snapshot.Outflow, err = parseDecimal(outflowStr, "outflow"); err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
