package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	holdingID := uuid.New()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "Contribution with positive amount should pass",
			tx: Transaction{
				ID:        uuid.New(),
				HoldingID: holdingID,
				Timestamp: now,
				Kind:      TransactionKindContribution,
				Amount:    decimal.NewFromInt(1000),
			},
			wantErr: false,
		},
		{
			name: "Withdrawal with quantity should pass",
			tx: Transaction{
				ID:        uuid.New(),
				HoldingID: holdingID,
				Timestamp: now,
				Kind:      TransactionKindWithdrawal,
				Amount:    decimal.NewFromInt(250),
				Quantity:  decimal.NewFromInt(10),
			},
			wantErr: false,
		},
		{
			name: "Zero amount should fail",
			tx: Transaction{
				HoldingID: holdingID,
				Timestamp: now,
				Kind:      TransactionKindContribution,
				Amount:    decimal.Zero,
			},
			wantErr: true,
			errMsg:  "transaction amount must be positive",
		},
		{
			name: "Negative amount should fail",
			tx: Transaction{
				HoldingID: holdingID,
				Timestamp: now,
				Kind:      TransactionKindWithdrawal,
				Amount:    decimal.NewFromInt(-10),
			},
			wantErr: true,
			errMsg:  "transaction amount must be positive",
		},
		{
			name: "Unknown kind should fail",
			tx: Transaction{
				HoldingID: holdingID,
				Timestamp: now,
				Kind:      TransactionKind("TRANSFER"),
				Amount:    decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "transaction kind must be CONTRIBUTION or WITHDRAWAL",
		},
		{
			name: "Missing holding should fail",
			tx: Transaction{
				Timestamp: now,
				Kind:      TransactionKindContribution,
				Amount:    decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "transaction must reference a holding",
		},
		{
			name: "Missing timestamp should fail",
			tx: Transaction{
				HoldingID: holdingID,
				Kind:      TransactionKindContribution,
				Amount:    decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "transaction timestamp is required",
		},
		{
			name: "Negative quantity should fail",
			tx: Transaction{
				HoldingID: holdingID,
				Timestamp: now,
				Kind:      TransactionKindContribution,
				Amount:    decimal.NewFromInt(10),
				Quantity:  decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "transaction quantity cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSortChronologically(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	first := Transaction{ID: uuid.New(), Timestamp: base}
	second := Transaction{ID: uuid.New(), Timestamp: base.AddDate(0, 0, 5)}
	sameAsFirst := Transaction{ID: uuid.New(), Timestamp: base}

	input := []Transaction{second, first, sameAsFirst}
	sorted := SortChronologically(input)

	assert.Equal(t, []uuid.UUID{first.ID, sameAsFirst.ID, second.ID},
		[]uuid.UUID{sorted[0].ID, sorted[1].ID, sorted[2].ID})

	// Input slice must not be reordered
	assert.Equal(t, second.ID, input[0].ID)
}
