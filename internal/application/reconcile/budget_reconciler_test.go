package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ReconcileBudgets(t *testing.T) {
	ctx := context.Background()
	may := finance.Month{Year: 2025, Month: time.May}
	period := may.Period(ict)

	newBudget := func(t *testing.T, f *fixture, owner, category uuid.UUID, allotted int64, from, to time.Time) *finance.Budget {
		t.Helper()
		b, err := finance.NewBudget(owner, category, dec(allotted), from, to)
		require.NoError(t, err)
		require.NoError(t, f.uow.Budgets().Save(ctx, b))
		return b
	}

	t.Run("spending above the allotment is over budget", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "an")
		food := uuid.New()
		b := newBudget(t, f, owner, food, 2_000_000, period.From, period.To)

		f.transaction(t, owner, finance.TransactionKindExpense, &food, 1_500_000, period.From.Add(2*time.Hour))
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 1_000_000, period.To.Add(-time.Hour))
		// outside the month, another category, and income do not count
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 9_000_000, period.To)
		other := uuid.New()
		f.transaction(t, owner, finance.TransactionKindExpense, &other, 9_000_000, period.From.Add(time.Hour))
		f.transaction(t, owner, finance.TransactionKindIncome, &food, 9_000_000, period.From.Add(time.Hour))

		res, err := f.svc.ReconcileBudgets(ctx, owner, may)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Processed)
		assert.Equal(t, 1, res.Updated)
		assert.Zero(t, res.Notified)

		got, err := f.uow.Budgets().FindByID(ctx, b.ID)
		require.NoError(t, err)
		assertDecimal(t, 2_500_000, got.TotalSpent)
		assert.Equal(t, finance.BudgetStatusOverBudget, got.Status)
		assert.Empty(t, f.notifications(t, owner))
	})

	t.Run("spending equal to the allotment stays within budget", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "an")
		food := uuid.New()
		b := newBudget(t, f, owner, food, 1_000, period.From, period.To)
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 1_000, period.From.Add(time.Hour))

		_, err := f.svc.ReconcileBudgets(ctx, owner, may)
		require.NoError(t, err)

		got, err := f.uow.Budgets().FindByID(ctx, b.ID)
		require.NoError(t, err)
		assertDecimal(t, 1_000, got.TotalSpent)
		assert.Equal(t, finance.BudgetStatusWithinBudget, got.Status)
	})

	t.Run("second run writes nothing", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "an")
		food := uuid.New()
		b := newBudget(t, f, owner, food, 100, period.From, period.To)
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 150, period.From.Add(time.Hour))

		first, err := f.svc.ReconcileBudgets(ctx, owner, may)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Updated)
		stored, err := f.uow.Budgets().FindByID(ctx, b.ID)
		require.NoError(t, err)

		f.advance(time.Hour)
		second, err := f.svc.ReconcileBudgets(ctx, owner, may)
		require.NoError(t, err)
		assert.Equal(t, 1, second.Processed)
		assert.Zero(t, second.Updated)

		again, err := f.uow.Budgets().FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.UpdatedAt.Equal(again.UpdatedAt))
	})

	t.Run("spend dropping back recovers the budget", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "an")
		food := uuid.New()
		b := newBudget(t, f, owner, food, 100, period.From, period.To)
		b.ApplySpend(dec(500))
		require.NoError(t, f.uow.Budgets().Save(ctx, b))
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 40, period.From.Add(time.Hour))

		res, err := f.svc.ReconcileBudgets(ctx, owner, may)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Updated)

		got, err := f.uow.Budgets().FindByID(ctx, b.ID)
		require.NoError(t, err)
		assertDecimal(t, 40, got.TotalSpent)
		assert.Equal(t, finance.BudgetStatusWithinBudget, got.Status)
	})

	t.Run("budgets not overlapping the month are left alone", func(t *testing.T) {
		f := newFixture(t)
		owner := f.user(t, "an")
		food := uuid.New()
		march := finance.Month{Year: 2025, Month: time.March}.Period(ict)
		old := newBudget(t, f, owner, food, 100, march.From, march.To)
		// a quarterly budget overlapping May is aggregated over May only
		quarter := newBudget(t, f, owner, food, 100, march.From, period.To.AddDate(0, 1, 0))
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 70, march.From.Add(time.Hour))
		f.transaction(t, owner, finance.TransactionKindExpense, &food, 30, period.From.Add(time.Hour))

		res, err := f.svc.ReconcileBudgets(ctx, owner, may)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Processed)

		got, err := f.uow.Budgets().FindByID(ctx, old.ID)
		require.NoError(t, err)
		assert.True(t, got.TotalSpent.IsZero())

		got, err = f.uow.Budgets().FindByID(ctx, quarter.ID)
		require.NoError(t, err)
		assertDecimal(t, 30, got.TotalSpent)
	})
}
