package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

const transactionColumns = `id, holding_id, occurred_at, kind, amount, quantity, realized_profit, short_term_tax, income_tax, net_amount`

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// GetByID retrieves a transaction by its ID
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM holding_transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return tx, nil
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO holding_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.HoldingID,
		tx.Timestamp,
		string(tx.Kind),
		tx.Amount.String(),
		tx.Quantity.String(),
		tx.RealizedProfit.String(),
		tx.ShortTermTax.String(),
		tx.IncomeTax.String(),
		tx.NetAmount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Delete removes a transaction
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holding_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectAffected(result, "transaction", id)
}

// ListByHolding retrieves every transaction of a holding, oldest first
func (r *transactionRepository) ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM holding_transactions
		WHERE holding_id = $1
		ORDER BY occurred_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, holdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

func scanTransaction(row scanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var kind, amountStr, quantityStr, profitStr, shortTermStr, incomeStr, netStr string

	err := row.Scan(
		&tx.ID,
		&tx.HoldingID,
		&tx.Timestamp,
		&kind,
		&amountStr,
		&quantityStr,
		&profitStr,
		&shortTermStr,
		&incomeStr,
		&netStr,
	)
	if err != nil {
		return nil, err
	}
	tx.Kind = domain.TransactionKind(kind)

	if tx.Amount, err = parseDecimal(amountStr, "amount"); err != nil {
		return nil, err
	}
	if tx.Quantity, err = parseDecimal(quantityStr, "quantity"); err != nil {
		return nil, err
	}
	if tx.RealizedProfit, err = parseDecimal(profitStr, "realized_profit"); err != nil {
		return nil, err
	}
	if tx.ShortTermTax, err = parseDecimal(shortTermStr, "short_term_tax"); err != nil {
		return nil, err
	}
	if tx.IncomeTax, err = parseDecimal(incomeStr, "income_tax"); err != nil {
		return nil, err
	}
	if tx.NetAmount, err = parseDecimal(netStr, "net_amount"); err != nil {
		return nil, err
	}

	return &tx, nil
}
