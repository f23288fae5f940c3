package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*60*60)

func setupTestUnitOfWork(t *testing.T) *GormUnitOfWork {
	t.Helper()
	db, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGormUnitOfWork(db.DB)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %d, got %s", want, got)
}

func saveTransaction(t *testing.T, uow *GormUnitOfWork, owner uuid.UUID, kind finance.TransactionKind, category *uuid.UUID, amount int64, at time.Time) {
	t.Helper()
	tx, err := finance.NewTransaction(owner, kind, category, dec(amount), at, "")
	require.NoError(t, err)
	require.NoError(t, uow.Transactions().Save(context.Background(), tx))
}

func TestUserRepository_FindAllIDs(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()

	active, err := finance.NewUser("An", "an@example.com")
	require.NoError(t, err)
	inactive, err := finance.NewUser("Binh", "binh@example.com")
	require.NoError(t, err)
	inactive.Deactivate()

	require.NoError(t, uow.Users().Save(ctx, active))
	require.NoError(t, uow.Users().Save(ctx, inactive))

	ids, err := uow.Users().FindAllIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{active.ID, inactive.ID}, ids)

	found, err := uow.Users().FindByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)

	_, err = uow.Users().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTransactionRepository_Sum(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()
	food := uuid.New()
	rent := uuid.New()
	may := finance.Month{Year: 2025, Month: time.May}.Period(ict)

	saveTransaction(t, uow, owner, finance.TransactionKindExpense, &food, 100, may.From)                   // first instant, included
	saveTransaction(t, uow, owner, finance.TransactionKindExpense, &food, 200, may.To.Add(-time.Second))   // last second, included
	saveTransaction(t, uow, owner, finance.TransactionKindExpense, &food, 400, may.To)                     // next month
	saveTransaction(t, uow, owner, finance.TransactionKindExpense, &food, 800, may.From.Add(-time.Second)) // previous month
	saveTransaction(t, uow, owner, finance.TransactionKindExpense, &rent, 1000, may.From.Add(time.Hour))
	saveTransaction(t, uow, owner, finance.TransactionKindIncome, nil, 5000, may.From.Add(time.Hour))
	saveTransaction(t, uow, other, finance.TransactionKindExpense, &food, 9999, may.From.Add(time.Hour))

	tests := []struct {
		name   string
		filter finance.TransactionFilter
		want   int64
	}{
		{"category in half-open month", finance.TransactionFilter{OwnerID: owner, Kind: finance.TransactionKindExpense, CategoryID: &food, Period: may}, 300},
		{"all expense categories", finance.TransactionFilter{OwnerID: owner, Kind: finance.TransactionKindExpense, Period: may}, 1300},
		{"income", finance.TransactionFilter{OwnerID: owner, Kind: finance.TransactionKindIncome, Period: may}, 5000},
		{"no match is zero", finance.TransactionFilter{OwnerID: uuid.New(), Kind: finance.TransactionKindIncome, Period: may}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := uow.Transactions().Sum(ctx, tt.filter)
			require.NoError(t, err)
			assertDecimal(t, tt.want, total)
		})
	}
}

func TestBudgetRepository_FindActiveByOwner(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	owner := uuid.New()
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, ict)

	active, err := finance.NewBudget(owner, uuid.New(), dec(2_000_000), start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	inactive, err := finance.NewBudget(owner, uuid.New(), dec(1), start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	inactive.Active = false

	require.NoError(t, uow.Budgets().Save(ctx, active))
	require.NoError(t, uow.Budgets().Save(ctx, inactive))

	budgets, err := uow.Budgets().FindActiveByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, active.ID, budgets[0].ID)
	assertDecimal(t, 2_000_000, budgets[0].Allotted)
	assert.True(t, budgets[0].PeriodStart.Equal(start))

	require.True(t, active.ApplySpend(dec(2_500_000)))
	require.NoError(t, uow.Budgets().Save(ctx, active))

	reloaded, err := uow.Budgets().FindByID(ctx, active.ID)
	require.NoError(t, err)
	assertDecimal(t, 2_500_000, reloaded.TotalSpent)
	assert.Equal(t, finance.BudgetStatusOverBudget, reloaded.Status)
}

func TestDebtRepository_FindMonitoredByOwner(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	owner := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	newDebt := func(status finance.DebtStatus, next *time.Time) *finance.Debt {
		d, err := finance.NewDebt(owner, dec(1_000_000), decimal.Zero, 12, start, decimal.Zero)
		require.NoError(t, err)
		d.Status = status
		d.NextPaymentDate = next
		require.NoError(t, uow.Debts().Save(ctx, d))
		return d
	}

	next := start.AddDate(0, 1, 0)
	activeDebt := newDebt(finance.DebtStatusActive, nil)
	overdueWithDate := newDebt(finance.DebtStatusOverdue, &next)
	newDebt(finance.DebtStatusPaidOff, nil)

	debts, err := uow.Debts().FindMonitoredByOwner(ctx, owner)
	require.NoError(t, err)
	ids := make([]uuid.UUID, len(debts))
	for i, d := range debts {
		ids[i] = d.ID
	}
	assert.ElementsMatch(t, []uuid.UUID{activeDebt.ID, overdueWithDate.ID}, ids)
}

func TestSavingGoalRepository_FindOverdueInProgress(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	newGoal := func(owner uuid.UUID, deadline time.Time, status finance.GoalStatus) *finance.SavingGoal {
		g, err := finance.NewSavingGoal(owner, "Trip", dec(1_000_000), dec(500_000), deadline)
		require.NoError(t, err)
		g.Status = status
		require.NoError(t, uow.Goals().Save(ctx, g))
		return g
	}

	owner := uuid.New()
	overdue := newGoal(owner, now.Add(-time.Hour), finance.GoalStatusInProgress)
	newGoal(owner, now.Add(time.Hour), finance.GoalStatusInProgress)
	newGoal(uuid.New(), now.Add(-time.Hour), finance.GoalStatusFailed)

	goals, err := uow.Goals().FindOverdueInProgress(ctx, now)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, overdue.ID, goals[0].ID)

	inProgress, err := uow.Goals().FindInProgressByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, inProgress, 2)
}

func TestReportRepository_CreateIsUniquePerMonth(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	owner := uuid.New()
	april := finance.Month{Year: 2025, Month: time.April}

	exists, err := uow.Reports().ExistsForMonth(ctx, owner, april)
	require.NoError(t, err)
	assert.False(t, exists)

	first, err := finance.NewReport(owner, april, dec(10_000_000), dec(7_000_000))
	require.NoError(t, err)
	require.NoError(t, uow.Reports().Create(ctx, first))

	second, err := finance.NewReport(owner, april, dec(1), dec(1))
	require.NoError(t, err)
	err = uow.Reports().Create(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	exists, err = uow.Reports().ExistsForMonth(ctx, owner, april)
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := uow.Reports().FindByOwnerAndMonth(ctx, owner, april)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assertDecimal(t, 3_000_000, found.SavedAmount)

	_, err = uow.Reports().FindByOwnerAndMonth(ctx, owner, april.AddMonths(1))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReminderRepository_FindDueAndMarkSent(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	newReminder := func(fireAt time.Time, target finance.ReminderTarget) *finance.Reminder {
		r, err := finance.NewReminder(owner, target, fireAt, "Pay the bill")
		require.NoError(t, err)
		require.NoError(t, uow.Reminders().Save(ctx, r))
		return r
	}

	later := newReminder(now.Add(-time.Minute), finance.NoTarget())
	earlier := newReminder(now.Add(-time.Hour), finance.GoalTarget(uuid.New()))
	newReminder(now.Add(time.Minute), finance.NoTarget())

	due, err := uow.Reminders().FindDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, earlier.ID, due[0].ID)
	assert.Equal(t, later.ID, due[1].ID)
	assert.Equal(t, finance.EntityKindGoal, due[0].Target.Kind())

	require.NoError(t, due[0].MarkSent(now))
	ok, err := uow.Reminders().MarkSent(ctx, &due[0])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uow.Reminders().MarkSent(ctx, &due[0])
	require.NoError(t, err)
	assert.False(t, ok, "second mark must not update a sent reminder")

	due, err = uow.Reminders().FindDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, later.ID, due[0].ID)

	sent, err := uow.Reminders().FindByID(ctx, earlier.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.ReminderStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.True(t, sent.SentAt.Equal(now))
}

func TestNotificationRepository_ExistsSince(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	n, err := finance.NewNotification(owner, finance.NotificationCategoryWarning, "Goal overdue", true, finance.SourceRef{})
	require.NoError(t, err)
	n.StampAt(now.Add(-2 * time.Hour))
	require.NoError(t, uow.Notifications().Create(ctx, n))

	exists, err := uow.Notifications().ExistsSince(ctx, owner, "Goal overdue", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = uow.Notifications().ExistsSince(ctx, owner, "Goal overdue", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = uow.Notifications().ExistsSince(ctx, owner, "Other text", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	list, err := uow.Notifications().FindByOwner(ctx, owner, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Important)
	assert.Equal(t, finance.NotificationCategoryWarning, list[0].Category)
}

func TestGormUnitOfWork_Do(t *testing.T) {
	uow := setupTestUnitOfWork(t)
	ctx := context.Background()
	owner := uuid.New()

	t.Run("commits writes when fn succeeds", func(t *testing.T) {
		n, err := finance.NewNotification(owner, finance.NotificationCategoryUpdate, "committed", false, finance.SourceRef{})
		require.NoError(t, err)

		err = uow.Do(ctx, func(ctx context.Context, repos finance.Repositories) error {
			return repos.Notifications().Create(ctx, n)
		})
		require.NoError(t, err)

		list, err := uow.Notifications().FindByOwner(ctx, owner, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("rolls back every write when fn fails", func(t *testing.T) {
		boom := errors.New("boom")
		err := uow.Do(ctx, func(ctx context.Context, repos finance.Repositories) error {
			n, err := finance.NewNotification(owner, finance.NotificationCategoryUpdate, "rolled back", false, finance.SourceRef{})
			require.NoError(t, err)
			if err := repos.Notifications().Create(ctx, n); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		list, err := uow.Notifications().FindByOwner(ctx, owner, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
