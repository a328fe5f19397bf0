package lots

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/timevalue"
)

var start = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

func contribution(amount int64, day int) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.New(),
		Timestamp: start.AddDate(0, 0, day),
		Kind:      domain.TransactionKindContribution,
		Amount:    decimal.NewFromInt(amount),
	}
}

func withdrawal(amount decimal.Decimal, day int) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.New(),
		Timestamp: start.AddDate(0, 0, day),
		Kind:      domain.TransactionKindWithdrawal,
		Amount:    amount,
	}
}

func TestBuild_ContributionsBecomeLotsInArrivalOrder(t *testing.T) {
	reference := start.AddDate(0, 0, 100)
	txs := []domain.Transaction{contribution(1000, 0), contribution(500, 30)}

	ledger, err := Build(txs, decimal.NewFromInt(12), reference, timevalue.Default)

	require.NoError(t, err)
	require.Len(t, ledger.Lots, 2)
	assert.Equal(t, start, ledger.Lots[0].Origin)
	assert.True(t, ledger.Lots[0].Principal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, ledger.Lots[0].Value.GreaterThan(ledger.Lots[0].Principal))
	assert.True(t, ledger.Lots[1].Principal.Equal(decimal.NewFromInt(500)))
	assert.True(t, ledger.Contributed.Equal(decimal.NewFromInt(1500)))
}

func TestBuild_WithdrawingFirstLotExactValueLeavesLaterLotsUntouched(t *testing.T) {
	reference := start.AddDate(0, 0, 200)
	rate := decimal.NewFromInt(12)
	contributions := []domain.Transaction{contribution(500, 0), contribution(700, 20), contribution(300, 50)}

	before, err := Build(contributions, rate, reference, timevalue.Default)
	require.NoError(t, err)

	txs := append(contributions, withdrawal(before.Lots[0].Value, 60))
	after, err := Build(txs, rate, reference, timevalue.Default)
	require.NoError(t, err)

	assert.True(t, after.Lots[0].Value.IsZero())
	assert.True(t, after.Lots[0].Principal.IsZero())
	for i := 1; i < len(after.Lots); i++ {
		assert.True(t, after.Lots[i].Value.Equal(before.Lots[i].Value), "lot %d value", i)
		assert.True(t, after.Lots[i].Principal.Equal(before.Lots[i].Principal), "lot %d principal", i)
	}
	assert.True(t, after.Unmatched.IsZero())
}

func TestBuild_PartialWithdrawalConsumesOldestLotProportionally(t *testing.T) {
	reference := start.AddDate(0, 0, 90)
	txs := []domain.Transaction{
		contribution(500, 0),
		contribution(500, 40),
		withdrawal(decimal.NewFromInt(300), 60),
	}

	ledger, err := Build(txs, decimal.NewFromInt(12), reference, timevalue.Default)
	require.NoError(t, err)

	first, second := ledger.Lots[0], ledger.Lots[1]
	grownFirst := timevalue.Grow(decimal.NewFromInt(500), start, decimal.NewFromInt(12), reference)

	// The first lot lost 300 of value and the same fraction of its principal
	assert.InDelta(t, grownFirst.Sub(decimal.NewFromInt(300)).InexactFloat64(), first.Value.InexactFloat64(), 1e-9)
	fraction := decimal.NewFromInt(300).Div(grownFirst)
	expectedPrincipal := decimal.NewFromInt(500).Mul(decimal.NewFromInt(1).Sub(fraction))
	assert.InDelta(t, expectedPrincipal.InexactFloat64(), first.Principal.InexactFloat64(), 1e-9)
	assert.True(t, first.Principal.LessThan(decimal.NewFromInt(500)))

	// Profit ratio is preserved by a partial consumption
	assert.InDelta(t, grownFirst.Div(decimal.NewFromInt(500)).InexactFloat64(),
		first.Value.Div(first.Principal).InexactFloat64(), 1e-9)

	assert.True(t, second.Principal.Equal(decimal.NewFromInt(500)))
	require.Len(t, ledger.Exits, 1)
	assert.True(t, ledger.Exits[0].Value.Equal(decimal.NewFromInt(300)))
	assert.True(t, ledger.Exits[0].Profit().IsPositive())
}

func TestBuild_WithdrawalSpanningLots(t *testing.T) {
	reference := start.AddDate(0, 0, 10)
	txs := []domain.Transaction{
		contribution(100, 0),
		contribution(100, 1),
		withdrawal(decimal.NewFromInt(150), 2),
	}

	// No rate: values equal principal
	ledger, err := Build(txs, decimal.Zero, reference, timevalue.Default)
	require.NoError(t, err)

	assert.True(t, ledger.Lots[0].Value.IsZero())
	assert.True(t, ledger.Lots[1].Value.Equal(decimal.NewFromInt(50)))
	assert.True(t, ledger.Lots[1].Principal.Equal(decimal.NewFromInt(50)))
	assert.Len(t, ledger.Exits, 2)
}

func TestBuild_OverWithdrawalSurplusIsDropped(t *testing.T) {
	reference := start.AddDate(0, 0, 10)
	txs := []domain.Transaction{
		contribution(100, 0),
		withdrawal(decimal.NewFromInt(250), 2),
		contribution(40, 3),
	}

	ledger, err := Build(txs, decimal.Zero, reference, timevalue.Default)
	require.NoError(t, err)

	assert.True(t, ledger.Unmatched.Equal(decimal.NewFromInt(150)))
	assert.True(t, ledger.Withdrawn.Equal(decimal.NewFromInt(100)))
	// The later contribution is not retroactively consumed
	assert.True(t, ledger.TotalValue().Equal(decimal.NewFromInt(40)))
}

func TestBuild_PrincipalIsConserved(t *testing.T) {
	reference := start.AddDate(0, 0, 400)
	txs := []domain.Transaction{
		contribution(1000, 0),
		contribution(250, 15),
		withdrawal(decimal.NewFromInt(400), 40),
		contribution(800, 90),
		withdrawal(decimal.RequireFromString("1033.33"), 200),
		withdrawal(decimal.NewFromInt(10), 201),
	}

	ledger, err := Build(txs, decimal.RequireFromString("13.5"), reference, timevalue.Default)
	require.NoError(t, err)

	limit := ledger.Contributed.Sub(ledger.Withdrawn).Add(ConsumeEpsilon)
	assert.True(t, ledger.TotalPrincipal().LessThanOrEqual(limit),
		"principal %s exceeds contributed-withdrawn %s", ledger.TotalPrincipal(), limit)
	for _, lot := range ledger.Lots {
		assert.False(t, lot.Principal.IsNegative())
		assert.True(t, lot.Value.GreaterThanOrEqual(lot.Principal))
	}
}

func TestBuild_UnorderedInputIsReplayedChronologically(t *testing.T) {
	reference := start.AddDate(0, 0, 10)
	txs := []domain.Transaction{
		withdrawal(decimal.NewFromInt(60), 5),
		contribution(100, 0),
	}

	ledger, err := Build(txs, decimal.Zero, reference, timevalue.Default)
	require.NoError(t, err)

	assert.True(t, ledger.TotalValue().Equal(decimal.NewFromInt(40)))
	assert.True(t, ledger.Unmatched.IsZero())
}

func TestBuild_RejectsInvalidInputBeforeMutation(t *testing.T) {
	reference := start.AddDate(0, 0, 10)

	tests := []struct {
		name string
		tx   domain.Transaction
	}{
		{"negative amount", withdrawal(decimal.NewFromInt(-5), 1)},
		{"zero timestamp", domain.Transaction{Kind: domain.TransactionKindContribution, Amount: decimal.NewFromInt(1)}},
		{"unknown kind", domain.Transaction{Timestamp: start, Kind: "FEE", Amount: decimal.NewFromInt(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, err := Build([]domain.Transaction{contribution(100, 0), tt.tx}, decimal.Zero, reference, timevalue.Default)

			assert.Nil(t, ledger)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestBuild_ZeroAmountsAreReplayedWithoutEffect(t *testing.T) {
	reference := start.AddDate(0, 0, 10)
	txs := []domain.Transaction{
		contribution(100, 0),
		contribution(0, 2),
		withdrawal(decimal.Zero, 3),
	}

	ledger, err := Build(txs, decimal.Zero, reference, timevalue.Default)
	require.NoError(t, err)

	require.Len(t, ledger.Lots, 2)
	assert.True(t, ledger.TotalValue().Equal(decimal.NewFromInt(100)))
	assert.True(t, ledger.TotalPrincipal().Equal(decimal.NewFromInt(100)))
	assert.Empty(t, ledger.Exits)
	assert.Len(t, ledger.Live(), 1)
}

func TestBuild_DoesNotReorderCallerInput(t *testing.T) {
	txs := []domain.Transaction{
		withdrawal(decimal.NewFromInt(60), 5),
		contribution(100, 0),
	}

	_, err := Build(txs, decimal.Zero, start.AddDate(0, 0, 10), timevalue.Default)
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionKindWithdrawal, txs[0].Kind)
}

func TestLedger_Live(t *testing.T) {
	ledger := &Ledger{Lots: []Lot{
		{Value: decimal.Zero},
		{Value: decimal.RequireFromString("0.005")},
		{Value: decimal.NewFromInt(10), Principal: decimal.NewFromInt(9)},
	}}

	live := ledger.Live()

	require.Len(t, live, 1)
	assert.True(t, live[0].Profit().Equal(decimal.NewFromInt(1)))
}
