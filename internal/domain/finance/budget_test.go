package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetStatusFor(t *testing.T) {
	allotted := decimal.NewFromInt(2_000_000)

	tests := []struct {
		name     string
		spent    decimal.Decimal
		expected BudgetStatus
	}{
		{"nothing spent", decimal.Zero, BudgetStatusWithinBudget},
		{"below allotment", decimal.NewFromInt(1_999_999), BudgetStatusWithinBudget},
		{"exactly allotment", decimal.NewFromInt(2_000_000), BudgetStatusWithinBudget},
		{"over allotment", decimal.NewFromInt(2_500_000), BudgetStatusOverBudget},
		{"over by a fraction", decimal.RequireFromString("2000000.01"), BudgetStatusOverBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BudgetStatusFor(tt.spent, allotted))
		})
	}
}

func TestNewBudget_Validation(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	_, err := NewBudget(uuid.Nil, uuid.New(), decimal.NewFromInt(10), start, end)
	assert.Error(t, err)

	_, err = NewBudget(uuid.New(), uuid.Nil, decimal.NewFromInt(10), start, end)
	assert.Error(t, err)

	_, err = NewBudget(uuid.New(), uuid.New(), decimal.NewFromInt(-1), start, end)
	assert.Error(t, err)

	_, err = NewBudget(uuid.New(), uuid.New(), decimal.NewFromInt(10), end, start)
	assert.Error(t, err)

	b, err := NewBudget(uuid.New(), uuid.New(), decimal.NewFromInt(10), start, end)
	require.NoError(t, err)
	assert.True(t, b.Active)
	assert.Equal(t, BudgetStatusWithinBudget, b.Status)
	assert.True(t, b.TotalSpent.IsZero())
}

func TestBudget_ApplySpend(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	b, err := NewBudget(uuid.New(), uuid.New(), decimal.NewFromInt(2_000_000), start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	changed := b.ApplySpend(decimal.NewFromInt(2_500_000))
	assert.True(t, changed)
	assert.True(t, b.TotalSpent.Equal(decimal.NewFromInt(2_500_000)))
	assert.Equal(t, BudgetStatusOverBudget, b.Status)
	assert.True(t, b.Remaining().Equal(decimal.NewFromInt(-500_000)))

	// Recompute with the same value is a no-op
	updatedAt := b.UpdatedAt
	assert.False(t, b.ApplySpend(decimal.RequireFromString("2500000.00")))
	assert.Equal(t, updatedAt, b.UpdatedAt)

	// Spend corrected downwards flips the status back
	assert.True(t, b.ApplySpend(decimal.NewFromInt(100)))
	assert.Equal(t, BudgetStatusWithinBudget, b.Status)
}

func TestBudget_Covers(t *testing.T) {
	april := Month{Year: 2025, Month: time.April}.Period(time.UTC)

	b, err := NewBudget(uuid.New(), uuid.New(), decimal.NewFromInt(1),
		time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, b.Covers(april))

	b.PeriodStart = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, b.Covers(april))
}
